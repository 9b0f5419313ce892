// Package auth verifies user credentials and issues the signed session token that lets a session
// resume without logging in again. Callers only ever see the verified username.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

type User struct {
	Username     string `toml:"username"`
	DisplayName  string `toml:"name"`
	PasswordHash string `toml:"password_hash"`
}

// Result is a successful login: the verified identifier plus the token to persist.
type Result struct {
	Username    string
	DisplayName string
	Token       string
}

type Authenticator struct {
	users  map[string]User
	hasher *PasswordHasher
	tokens *TokenManager
}

func NewAuthenticator(users []User, hasher *PasswordHasher, tokens *TokenManager) (*Authenticator, error) {
	if hasher == nil || tokens == nil {
		return nil, errors.New("auth: hasher and token manager are required")
	}
	byName := make(map[string]User, len(users))
	for _, u := range users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return nil, errors.New("auth: user with empty username")
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("auth: user %q has no password hash", name)
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("auth: duplicate user %q", name)
		}
		u.Username = name
		if strings.TrimSpace(u.DisplayName) == "" {
			u.DisplayName = name
		}
		byName[name] = u
	}
	return &Authenticator{users: byName, hasher: hasher, tokens: tokens}, nil
}

func (a *Authenticator) Login(username, password string) (Result, error) {
	user, ok := a.users[strings.TrimSpace(username)]
	if !ok || !a.hasher.Verify(password, user.PasswordHash) {
		return Result{}, ErrInvalidCredentials
	}
	token, err := a.tokens.Issue(user.Username, user.DisplayName)
	if err != nil {
		return Result{}, fmt.Errorf("auth: issue token: %w", err)
	}
	return Result{Username: user.Username, DisplayName: user.DisplayName, Token: token}, nil
}

// Resume validates a previously issued token. Tokens for users removed from the configuration are
// rejected.
func (a *Authenticator) Resume(token string) (Result, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		return Result{}, err
	}
	user, ok := a.users[claims.Username]
	if !ok {
		return Result{}, ErrInvalidToken
	}
	return Result{Username: user.Username, DisplayName: user.DisplayName, Token: token}, nil
}
