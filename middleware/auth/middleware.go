package auth

import (
	"net/http"
	"strings"
)

const sessionCookieName = "studyflow_session"

// SessionCookieName returns the name of the session cookie
func SessionCookieName() string {
	return sessionCookieName
}

// CreateAuthMiddleware creates HTTP middleware for authentication
func CreateAuthMiddleware(authConfig *AuthConfig) func(http.Handler) http.Handler {
	if authConfig == nil || !authConfig.Enabled {
		// No-op middleware if auth is disabled
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Let auth endpoints handle themselves
			if isAuthEndpoint(r.URL.Path, authConfig) {
				next.ServeHTTP(w, r)
				return
			}

			user, err := getUserFromSession(r, authConfig)
			if err != nil && authConfig.RequireAuth {
				redirectToLogin(w, r, authConfig)
				return
			}

			ctx := r.Context()
			if user != nil {
				ctx = WithAuthUser(ctx, user)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// isAuthEndpoint checks if the path is an authentication endpoint
func isAuthEndpoint(path string, authConfig *AuthConfig) bool {
	basePath := getBasePath(path)
	return path == basePath+authConfig.LoginPath || path == basePath+authConfig.LogoutPath
}

// getUserFromSession retrieves the user from the session cookie
func getUserFromSession(r *http.Request, authConfig *AuthConfig) (*AuthUser, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}

	return authConfig.SessionStore.GetSession(r.Context(), cookie.Value)
}

// redirectToLogin redirects the user to the login page, preserving the
// original URL so login can return to it
func redirectToLogin(w http.ResponseWriter, r *http.Request, authConfig *AuthConfig) {
	returnURL := r.URL.Path
	if r.URL.RawQuery != "" {
		returnURL += "?" + r.URL.RawQuery
	}

	basePath := getBasePath(r.URL.Path)
	loginURL := basePath + authConfig.LoginPath
	if returnURL != loginURL {
		loginURL += "?return=" + returnURL
	}

	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// getBasePath extracts the mount path (first segment) from a request path,
// e.g. "/admin/activity_c/7" -> "/admin"
func getBasePath(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.Index(trimmed, "/"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return ""
	}
	return "/" + trimmed
}

// SetSessionCookie writes the session cookie on a login response
func SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on logout
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionIDFromRequest returns the raw session id carried by the request
func SessionIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
