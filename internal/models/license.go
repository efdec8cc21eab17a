// internal/models/license.go
package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// LicenseFlavor selects one of the fixed license-term presets.
type LicenseFlavor int

const (
	NonCommercial LicenseFlavor = iota
	CommercialUse
	CommercialRemix
)

// DefaultLicenseFlavor is used when a request names no flavor.
const DefaultLicenseFlavor = CommercialRemix

var ErrUnknownFlavor = errors.New("unknown license flavor")

var flavorNames = map[LicenseFlavor]string{
	NonCommercial:   "nonCommercial",
	CommercialUse:   "commercialUse",
	CommercialRemix: "commercialRemix",
}

// LicenseFlavors lists every flavor in declaration order.
func LicenseFlavors() []LicenseFlavor {
	return []LicenseFlavor{NonCommercial, CommercialUse, CommercialRemix}
}

// ParseLicenseFlavor maps a wire name to a flavor. An empty name selects the default;
// any other unrecognized name is an error.
func ParseLicenseFlavor(s string) (LicenseFlavor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLicenseFlavor, nil
	}
	for _, f := range LicenseFlavors() {
		if strings.EqualFold(s, flavorNames[f]) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFlavor, s)
}

func (f LicenseFlavor) String() string {
	if name, ok := flavorNames[f]; ok {
		return name
	}
	return fmt.Sprintf("LicenseFlavor(%d)", int(f))
}

func (f LicenseFlavor) IsValid() bool {
	_, ok := flavorNames[f]
	return ok
}

func (f LicenseFlavor) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFlavor, int(f))
	}
	return []byte(f.String()), nil
}

func (f *LicenseFlavor) UnmarshalText(text []byte) error {
	parsed, err := ParseLicenseFlavor(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Uint256 is an unsigned on-chain integer kept as decimal digits so it survives JSON
// consumers that only have float64 numbers.
type Uint256 string

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

var ErrInvalidUint256 = errors.New("invalid uint256")

func NewUint256(v uint64) Uint256 {
	return Uint256(new(big.Int).SetUint64(v).String())
}

func ParseUint256(s string) (Uint256, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidUint256)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidUint256, s)
		}
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Cmp(maxUint256) > 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidUint256, s)
	}
	return Uint256(n.String()), nil
}

func (u Uint256) BigInt() (*big.Int, bool) {
	return new(big.Int).SetString(string(u), 10)
}

func (u Uint256) Validate() error {
	_, err := ParseUint256(string(u))
	return err
}

// HexData is 0x-prefixed opaque bytes.
type HexData string

const EmptyHexData HexData = "0x"

func (h HexData) Validate() error {
	body, ok := strings.CutPrefix(string(h), "0x")
	if !ok {
		return fmt.Errorf("hex data %q must start with 0x", string(h))
	}
	if _, err := hex.DecodeString(body); err != nil {
		return fmt.Errorf("hex data %q: %w", string(h), err)
	}
	return nil
}

// LicenseTerms is a complete programmable-license terms record. Every field is a value
// type so two records compare with ==.
type LicenseTerms struct {
	Transferable              bool    `json:"transferable"`
	RoyaltyPolicy             Address `json:"royaltyPolicy"`
	DefaultMintingFee         Uint256 `json:"defaultMintingFee"`
	Expiration                Uint256 `json:"expiration"`
	CommercialUse             bool    `json:"commercialUse"`
	CommercialAttribution     bool    `json:"commercialAttribution"`
	CommercializerChecker     Address `json:"commercializerChecker"`
	CommercializerCheckerData HexData `json:"commercializerCheckerData"`
	CommercialRevShare        uint32  `json:"commercialRevShare"`
	CommercialRevCeiling      Uint256 `json:"commercialRevCeiling"`
	DerivativesAllowed        bool    `json:"derivativesAllowed"`
	DerivativesAttribution    bool    `json:"derivativesAttribution"`
	DerivativesApproval       bool    `json:"derivativesApproval"`
	DerivativesReciprocal     bool    `json:"derivativesReciprocal"`
	DerivativeRevCeiling      Uint256 `json:"derivativeRevCeiling"`
	Currency                  Address `json:"currency"`
	URI                       string  `json:"uri"`
}

// Validate rejects partially populated records.
func (t LicenseTerms) Validate() error {
	for name, addr := range map[string]Address{
		"royaltyPolicy":         t.RoyaltyPolicy,
		"commercializerChecker": t.CommercializerChecker,
		"currency":              t.Currency,
	} {
		if err := addr.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	for name, amount := range map[string]Uint256{
		"defaultMintingFee":    t.DefaultMintingFee,
		"expiration":           t.Expiration,
		"commercialRevCeiling": t.CommercialRevCeiling,
		"derivativeRevCeiling": t.DerivativeRevCeiling,
	} {
		if err := amount.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if err := t.CommercializerCheckerData.Validate(); err != nil {
		return fmt.Errorf("commercializerCheckerData: %w", err)
	}

	if t.CommercialRevShare > 100 {
		return fmt.Errorf("commercialRevShare %d exceeds 100", t.CommercialRevShare)
	}

	return nil
}
