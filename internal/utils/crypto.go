// internal/utils/crypto.go
package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"
)

// ContentHash returns the 0x-prefixed hex sha256 digest of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return "0x" + hex.EncodeToString(sum[:])
}

// Keccak256 is the legacy (pre-NIST) Keccak used by EVM chains.
func Keccak256(parts ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		hasher.Write(p)
	}
	return hasher.Sum(nil)
}

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec and a sha2-256
// multihash.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// SHA2_256 with default length never fails.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}
