// internal/utils/jwt.go
package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	GatewayIssuer   = "story-registrar"
	GatewayAudience = "story-gateway"
)

// GatewayClaims authorize one call against the signing gateway.
type GatewayClaims struct {
	ChainID   int64  `json:"chain_id"`
	Operation string `json:"op"`
	jwt.RegisteredClaims
}

func GenerateGatewayToken(secret string, chainID int64, operation string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("gateway secret is not configured")
	}

	now := time.Now()
	claims := GatewayClaims{
		ChainID:   chainID,
		Operation: operation,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    GatewayIssuer,
			Audience:  jwt.ClaimStrings{GatewayAudience},
			Subject:   strconv.FormatInt(chainID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateGatewayToken(secret, tokenString string) (*GatewayClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GatewayClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*GatewayClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if !claims.VerifyIssuer(GatewayIssuer, true) {
		return nil, errors.New("unexpected token issuer")
	}

	if !claims.VerifyAudience(GatewayAudience, true) {
		return nil, errors.New("unexpected token audience")
	}

	return claims, nil
}
