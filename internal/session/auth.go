package session

import "strings"

type AuthStatus string

const (
	AuthNoAttempt     AuthStatus = "no_attempt"
	AuthRejected      AuthStatus = "rejected"
	AuthAuthenticated AuthStatus = "authenticated"
)

// AuthState is the login bookkeeping of one interactive session. Only the verified identifier is
// kept; credential material never reaches it.
type AuthState struct {
	Status      AuthStatus
	Owner       string
	DisplayName string
}

func (a AuthState) Authenticated() bool {
	return a.Status == AuthAuthenticated && strings.TrimSpace(a.Owner) != ""
}

func (a AuthState) Accept(owner, displayName string) AuthState {
	if strings.TrimSpace(owner) == "" {
		return a.Reject()
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = owner
	}
	return AuthState{Status: AuthAuthenticated, Owner: owner, DisplayName: displayName}
}

func (a AuthState) Reject() AuthState {
	return AuthState{Status: AuthRejected}
}

func (a AuthState) Logout() AuthState {
	return AuthState{Status: AuthNoAttempt}
}

// Prompt is the message shown on the login screen for the current state.
func (a AuthState) Prompt() string {
	switch a.Status {
	case AuthRejected:
		return "Invalid credentials"
	case AuthAuthenticated:
		return "Welcome " + a.DisplayName + "!"
	default:
		return "Please enter your username and password"
	}
}
