package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"
)

// BasicAuthUser represents a user configured for basic authentication
type BasicAuthUser struct {
	Username string
	Password string
	User     AuthUser
}

// WithBasicAuth creates an AuthConfig that validates credentials against a
// static map of username -> BasicAuthUser
func WithBasicAuth(users map[string]BasicAuthUser) AuthConfig {
	return WithBasicAuthAndTimeout(users, 24*time.Hour)
}

// WithBasicAuthAndTimeout creates an AuthConfig with custom session timeout
func WithBasicAuthAndTimeout(users map[string]BasicAuthUser, sessionTimeout time.Duration) AuthConfig {
	sessionStore := NewMemorySessionStoreWithTimeout(sessionTimeout)

	authenticator := func(ctx context.Context, username, password string) (*AuthUser, error) {
		user, exists := users[username]
		if !exists {
			return nil, errors.New("user not found")
		}

		// Constant time comparison to prevent timing attacks
		if subtle.ConstantTimeCompare([]byte(password), []byte(user.Password)) != 1 {
			return nil, errors.New("invalid password")
		}

		return &user.User, nil
	}

	return AuthConfig{
		Enabled:        true,
		LoginPath:      "/login",
		LogoutPath:     "/logout",
		Authenticator:  authenticator,
		SessionStore:   sessionStore,
		RequireAuth:    true,
		LoginRedirect:  "/admin",
		LogoutRedirect: "/admin",
	}
}

// NewBasicAuthUser creates a BasicAuthUser with the provided details
func NewBasicAuthUser(username, password, id, email string, roles []string) BasicAuthUser {
	return BasicAuthUser{
		Username: username,
		Password: password,
		User: AuthUser{
			ID:       id,
			Username: username,
			Email:    email,
			Roles:    roles,
		},
	}
}
