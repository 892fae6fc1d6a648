package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleClaims = Claims{UserID: 1, Email: "a@b.com", Name: "A"}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("super-secret", 7*24*time.Hour)

	tok, err := m.Issue(sampleClaims)
	require.NoError(t, err)

	got, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, sampleClaims, got)
}

func TestVerify_ExpiredAfterLifetime(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now()
	m := NewTokenManager("secret", time.Hour).WithClock(fixedClock(issuedAt))

	tok, err := m.Issue(sampleClaims)
	require.NoError(t, err)

	_, err = m.WithClock(fixedClock(issuedAt.Add(30 * time.Minute))).Verify(tok)
	require.NoError(t, err)

	_, err = m.WithClock(fixedClock(issuedAt.Add(time.Hour + time.Second))).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TamperedByte(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("secret", time.Hour)
	tok, err := m.Issue(sampleClaims)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	payload := []byte(parts[1])
	if payload[5] == 'A' {
		payload[5] = 'B'
	} else {
		payload[5] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = m.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret", time.Hour).Issue(sampleClaims)
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := NewTokenManager("k", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	payload := &TokenClaims{
		Claims: sampleClaims,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, payload).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &TokenClaims{Claims: sampleClaims}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = NewTokenManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_IgnoresSignatureAndExpiry(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-48 * time.Hour)
	tok, err := NewTokenManager("secret-a", time.Hour).WithClock(fixedClock(issuedAt)).Issue(sampleClaims)
	require.NoError(t, err)

	other := NewTokenManager("secret-b", time.Hour)
	_, err = other.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	decoded, ok := other.Decode(tok)
	require.True(t, ok)
	assert.Equal(t, sampleClaims, decoded.Claims)
	assert.Equal(t, "1", decoded.Subject)
	assert.NotEmpty(t, decoded.ID)
	assert.Equal(t, issuedAt.Add(time.Hour).Unix(), decoded.ExpiresAt.Unix())

	_, ok = other.Decode("garbage")
	assert.False(t, ok)
}
