package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 3)
	assert.Equal(t, "scrypt", parts[0])

	assert.True(t, VerifyPassword("hunter2", hash))
	assert.False(t, VerifyPassword("hunter3", hash))
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	t.Parallel()

	for _, stored := range []string{
		"",
		"hunter2",
		"bcrypt$abc$def",
		"scrypt$$",
		"scrypt$salt$not-hex",
	} {
		assert.False(t, VerifyPassword("hunter2", stored), "stored=%q", stored)
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("same")
	require.NoError(t, err)
	second, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword("same", first))
	assert.True(t, VerifyPassword("same", second))
}

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	user := core.SessionUser{Name: "Tefi", Username: "tefi"}

	token, err := GenerateSessionToken(user, secret, time.Hour)
	require.NoError(t, err)

	got, err := VerifySessionToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, user, got)
}

func TestSessionTokenExpired(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken(core.SessionUser{Name: "Facu", Username: "facu"}, []byte("k"), -time.Second)
	require.NoError(t, err)

	_, err = VerifySessionToken(token, []byte("k"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken(core.SessionUser{Name: "Tefi", Username: "tefi"}, []byte("right"), time.Hour)
	require.NoError(t, err)

	_, err = VerifySessionToken(token, []byte("wrong"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionTokenMalformed(t *testing.T) {
	t.Parallel()

	_, err := VerifySessionToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	a := NewAuthenticator("  Tefi  ", hash, "Estefanía")

	user, ok := a.Authenticate("tefi", "correct horse")
	require.True(t, ok)
	assert.Equal(t, core.SessionUser{Name: "Estefanía", Username: "tefi"}, user)

	// Usernames match case-insensitively with surrounding whitespace ignored.
	_, ok = a.Authenticate(" TEFI ", "correct horse")
	assert.True(t, ok)

	_, ok = a.Authenticate("tefi", "wrong password")
	assert.False(t, ok)

	_, ok = a.Authenticate("facu", "correct horse")
	assert.False(t, ok)
}

func TestAuthenticatorFallsBackToUsernameAsName(t *testing.T) {
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	a := NewAuthenticator("Facu", hash, "   ")
	user, ok := a.Authenticate("facu", "pw")
	require.True(t, ok)
	assert.Equal(t, "facu", user.Name)
}
