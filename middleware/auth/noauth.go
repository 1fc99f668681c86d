package auth

// WithNoAuth creates an AuthConfig that disables authentication
func WithNoAuth() AuthConfig {
	return AuthConfig{
		Enabled:        false,
		LoginPath:      "/login",
		LogoutPath:     "/logout",
		Authenticator:  nil,
		SessionStore:   nil,
		RequireAuth:    false,
		LoginRedirect:  "/admin",
		LogoutRedirect: "/admin",
	}
}
