package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecret(t *testing.T) {
	raw, digest, err := GenerateSecret()
	assert.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Len(t, digest, 64)

	// The stored digest never equals the raw secret but is recomputable from it.
	assert.NotEqual(t, raw, digest)
	assert.Equal(t, DigestSecret(raw), digest)
}

func TestGenerateSecret_Unique(t *testing.T) {
	raw1, _, err := GenerateSecret()
	assert.NoError(t, err)
	raw2, _, err := GenerateSecret()
	assert.NoError(t, err)

	assert.NotEqual(t, raw1, raw2)
}
