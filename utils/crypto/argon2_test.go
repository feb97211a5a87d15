package cryptopackage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndCompare(t *testing.T) {
	hash, err := GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := ComparePasswordAndHash("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ComparePasswordAndHash("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerate_UniqueSalts(t *testing.T) {
	h1, err := GenerateFromPassword("same password")
	require.NoError(t, err)
	h2, err := GenerateFromPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCompare_InvalidFormat(t *testing.T) {
	_, err := ComparePasswordAndHash("password", "not-a-hash")
	assert.Error(t, err)

	_, err = ComparePasswordAndHash("password", "$bcrypt$whatever")
	assert.Error(t, err)
}
