package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegistrationMode(t *testing.T) {
	mode, err := ParseRegistrationMode("", false)
	require.NoError(t, err)
	assert.Equal(t, MintNew, mode)

	mode, err = ParseRegistrationMode("", true)
	require.NoError(t, err)
	assert.Equal(t, UseExisting, mode)

	for in, want := range map[string]RegistrationMode{
		"mintNew":     MintNew,
		"spgMint":     MintNew,
		"useExisting": UseExisting,
		"existingNft": UseExisting,
	} {
		mode, err := ParseRegistrationMode(in, true)
		require.NoError(t, err, in)
		assert.Equal(t, want, mode, in)
	}

	_, err = ParseRegistrationMode("burn", false)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestTokenIDUnmarshal(t *testing.T) {
	var body struct {
		TokenID TokenID `json:"tokenId"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"tokenId":"42"}`), &body))
	assert.Equal(t, TokenID("42"), body.TokenID)

	require.NoError(t, json.Unmarshal([]byte(`{"tokenId":7}`), &body))
	assert.Equal(t, TokenID("7"), body.TokenID)

	assert.Error(t, json.Unmarshal([]byte(`{"tokenId":-1}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"tokenId":1.5}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"tokenId":true}`), &body))
}

func TestTokenIDNumberAndStringShareRange(t *testing.T) {
	var body struct {
		TokenID TokenID `json:"tokenId"`
	}

	for _, id := range []string{
		"18446744073709551616",
		"115792089237316195423570985008687907853269984665640564039457584007913129639935",
	} {
		require.NoError(t, json.Unmarshal([]byte(`{"tokenId":`+id+`}`), &body), id)
		assert.Equal(t, TokenID(id), body.TokenID)

		require.NoError(t, json.Unmarshal([]byte(`{"tokenId":"`+id+`"}`), &body), id)
		assert.Equal(t, TokenID(id), body.TokenID)
	}

	overflow := "115792089237316195423570985008687907853269984665640564039457584007913129639936"
	assert.Error(t, json.Unmarshal([]byte(`{"tokenId":`+overflow+`}`), &body))
	_, err := ParseUint256(overflow)
	assert.ErrorIs(t, err, ErrInvalidUint256)
}

func TestJSONBScan(t *testing.T) {
	var j JSONB
	require.NoError(t, j.Scan([]byte(`{"a":1}`)))
	assert.Equal(t, float64(1), j["a"])

	require.NoError(t, j.Scan(nil))
	assert.Nil(t, j)

	assert.Error(t, j.Scan(12))
}
