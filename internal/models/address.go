// internal/models/address.go
package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// Address is a 20-byte EVM account or contract address in 0x-prefixed hex form.
type Address string

const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

var (
	ErrInvalidAddress  = errors.New("invalid address")
	ErrAddressChecksum = errors.New("address checksum mismatch")
)

// ParseAddress accepts an address with or without the 0x prefix. All-lowercase and
// all-uppercase input is accepted as is; mixed case must carry a valid EIP-55 checksum.
// The returned address is always checksummed.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(body) != 40 {
		return "", fmt.Errorf("%w: %q must be 40 hex characters", ErrInvalidAddress, s)
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("%w: %q is not hex", ErrInvalidAddress, s)
	}

	checksummed := checksum(body)
	lower, upper := strings.ToLower(body), strings.ToUpper(body)
	if body != lower && body != upper && "0x"+body != string(checksummed) {
		return "", fmt.Errorf("%w: %s", ErrAddressChecksum, s)
	}
	return checksummed, nil
}

// IsHexAddress reports whether s has the shape of an address. It does not check the checksum.
func IsHexAddress(s string) bool {
	body := strings.TrimPrefix(s, "0x")
	if len(body) != 40 {
		return false
	}
	_, err := hex.DecodeString(body)
	return err == nil
}

func (a Address) Validate() error {
	if !strings.HasPrefix(string(a), "0x") || !IsHexAddress(string(a)) {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, string(a))
	}
	return nil
}

func (a Address) IsZero() bool {
	return strings.EqualFold(string(a), string(ZeroAddress))
}

func (a Address) String() string {
	return string(a)
}

// checksum applies EIP-55 mixed-case encoding to 40 hex characters.
func checksum(body string) Address {
	lower := strings.ToLower(body)

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	digest := hex.EncodeToString(hasher.Sum(nil))

	out := make([]byte, len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if c >= 'a' && c <= 'f' && digest[i] >= '8' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return Address("0x" + string(out))
}

// AddressFromBytes checksums the last 20 bytes of b.
func AddressFromBytes(b []byte) Address {
	if len(b) > 20 {
		b = b[len(b)-20:]
	}
	padded := make([]byte, 20)
	copy(padded[20-len(b):], b)
	return checksum(hex.EncodeToString(padded))
}
