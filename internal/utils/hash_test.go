package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSHA256Hasher_Deterministic(t *testing.T) {
	h := SHA256Hasher{}

	d1, err := h.Hash("Passw0rd!")
	require.NoError(t, err)
	d2, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
	assert.NotContains(t, d1, "Passw0rd!")

	// sha256("abc")
	abc, _ := h.Hash("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", abc)
}

func TestSHA256Hasher_Verify(t *testing.T) {
	h := SHA256Hasher{}
	digest, _ := h.Hash("Passw0rd!")

	assert.True(t, h.Verify("Passw0rd!", digest))
	assert.False(t, h.Verify("passw0rd!", digest))
	assert.False(t, h.Verify("Passw0rd!", ""))
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	digest, err := h.Hash("Passw0rd!")
	require.NoError(t, err)

	assert.True(t, h.Verify("Passw0rd!", digest))
	assert.False(t, h.Verify("wrong", digest))
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("sha256")
	require.NoError(t, err)
	assert.Equal(t, "sha256", h.Name())

	h, err = NewPasswordHasher("bcrypt")
	require.NoError(t, err)
	assert.Equal(t, "bcrypt", h.Name())

	_, err = NewPasswordHasher("md5")
	assert.Error(t, err)
}
