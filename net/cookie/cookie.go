// Package cookie manages the session token cookie.
//
// The token travels in an HTTP-only cookie named "jwt". Password flows
// set it with SameSite=Strict; the OAuth redirect callback uses
// SameSite=Lax because the browser arrives on a cross-site navigation.
package cookie

import (
	"net/http"
	"time"
)

// TokenName is the session token cookie name.
const TokenName = "jwt"

// SetToken sets the session token cookie for password-based flows.
// maxAge is the token TTL.
func SetToken(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	set(w, token, maxAge, secure, http.SameSiteStrictMode)
}

// SetTokenLax sets the session token cookie for the OAuth redirect
// callback, where a Strict cookie would be dropped by the browser.
func SetTokenLax(w http.ResponseWriter, token string, maxAge time.Duration, secure bool) {
	set(w, token, maxAge, secure, http.SameSiteLaxMode)
}

func set(w http.ResponseWriter, token string, maxAge time.Duration, secure bool, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenName,
		Value:    token,
		MaxAge:   int(maxAge.Seconds()),
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// ClearToken overwrites the session token cookie with an immediately
// expired one so the browser discards it.
func ClearToken(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetToken gets the session token from the request cookie.
func GetToken(r *http.Request) (string, error) {
	c, err := r.Cookie(TokenName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}
