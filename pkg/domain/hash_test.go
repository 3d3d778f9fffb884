package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "datatrail/pkg/domain-errors"
)

const sampleHex = "a3f1c2d4e5b697a8b9cadbecfd0e1f2a3b4c5d6e7f8091a2b3c4d5e6f7a8b9ca"

func TestParseHash(t *testing.T) {
	t.Run("accepts bare hex", func(t *testing.T) {
		h, err := ParseHash(sampleHex)
		require.NoError(t, err)
		assert.Equal(t, sampleHex, h.String())
	})

	t.Run("accepts 0x prefix", func(t *testing.T) {
		h, err := ParseHash("0x" + sampleHex)
		require.NoError(t, err)
		assert.Equal(t, sampleHex, h.String())
	})

	t.Run("rejects short input", func(t *testing.T) {
		_, err := ParseHash(sampleHex[:62])
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non-hex input", func(t *testing.T) {
		_, err := ParseHash(strings.Repeat("zz", HashSize))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestHashIsZero(t *testing.T) {
	assert.True(t, Hash{}.IsZero())

	h, err := ParseHash(sampleHex)
	require.NoError(t, err)
	assert.False(t, h.IsZero())
}

func TestHashJSON(t *testing.T) {
	h, err := ParseHash(sampleHex)
	require.NoError(t, err)

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, `"`+sampleHex+`"`, string(data))

	var decoded Hash
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, h, decoded)
}
