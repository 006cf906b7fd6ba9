package auth

import (
	"strings"

	"gastos/internal/core"
)

// Authenticator holds the single configured credential pair. The tracker is
// private to two people, so there is no user store behind it.
type Authenticator struct {
	username     string
	passwordHash string
	displayName  string
}

func NewAuthenticator(username, passwordHash, displayName string) *Authenticator {
	normalized := strings.ToLower(strings.TrimSpace(username))
	name := strings.TrimSpace(displayName)
	if name == "" {
		name = normalized
	}
	return &Authenticator{
		username:     normalized,
		passwordHash: passwordHash,
		displayName:  name,
	}
}

// Authenticate checks the credentials and returns the session user on
// success. The second return value is false for unknown usernames and wrong
// passwords alike.
func (a *Authenticator) Authenticate(username, password string) (core.SessionUser, bool) {
	if strings.ToLower(strings.TrimSpace(username)) != a.username {
		return core.SessionUser{}, false
	}
	if !VerifyPassword(password, a.passwordHash) {
		return core.SessionUser{}, false
	}
	return core.SessionUser{Name: a.displayName, Username: a.username}, true
}
