// internal/models/registration.go
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// RegistrationMode picks how the ownership token is obtained.
type RegistrationMode string

const (
	// MintNew mints a fresh token from an SPG collection and registers it.
	MintNew RegistrationMode = "mintNew"
	// UseExisting registers an already minted token.
	UseExisting RegistrationMode = "useExisting"
)

var ErrUnknownMode = errors.New("unknown registration mode")

var modeAliases = map[string]RegistrationMode{
	"mintnew":     MintNew,
	"spgmint":     MintNew,
	"useexisting": UseExisting,
	"existingnft": UseExisting,
}

// ParseRegistrationMode resolves a requested mode. With no mode given, an existing
// token is used when one is configured, otherwise a new token is minted.
func ParseRegistrationMode(s string, existingConfigured bool) (RegistrationMode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		if existingConfigured {
			return UseExisting, nil
		}
		return MintNew, nil
	}
	if mode, ok := modeAliases[strings.ToLower(s)]; ok {
		return mode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// TokenID is a token identifier accepted as either a JSON string or a JSON number.
type TokenID string

func (t *TokenID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TokenID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("tokenId must be a string or number: %w", err)
	}
	id, err := ParseUint256(n.String())
	if err != nil {
		return fmt.Errorf("tokenId %s is not a non-negative integer", n.String())
	}
	*t = TokenID(id)
	return nil
}

func (t TokenID) String() string {
	return string(t)
}

// Registration is one successful on-chain registration kept in the ledger.
type Registration struct {
	BaseModel
	Mode            RegistrationMode `json:"mode" gorm:"type:varchar(20);not null;index"`
	ChainID         int64            `json:"chain_id" gorm:"not null"`
	NFTContract     string           `json:"nft_contract" gorm:"size:42;not null;index"`
	TokenID         string           `json:"token_id" gorm:"size:78"`
	IPID            string           `json:"ip_id" gorm:"size:42;uniqueIndex"`
	TxHash          string           `json:"tx_hash" gorm:"size:66;index"`
	Flavor          string           `json:"flavor" gorm:"size:32;not null"`
	LicenseTermsIDs pq.StringArray   `json:"license_terms_ids" gorm:"type:text[]"`
	Title           string           `json:"title" gorm:"size:255"`
	IPMetadataHash  string           `json:"ip_metadata_hash" gorm:"size:66"`
	NFTMetadataHash string           `json:"nft_metadata_hash" gorm:"size:66"`
}
