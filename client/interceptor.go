package client

import (
	"net/http"
	"strings"
)

// authPaths are the endpoints where a 401 is an expected answer rather
// than an expired session.
var authPaths = []string{"/api/login", "/api/register", "/api/auth/"}

// Interceptor is an http.RoundTripper that attaches the bearer token and
// signals expired sessions so the app can send the user to the login page.
type Interceptor struct {
	Base  http.RoundTripper
	Token func() string

	// OnUnauthorized runs when a non-auth endpoint answers 401.
	OnUnauthorized func()
}

// RoundTrip implements http.RoundTripper.
func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	base := i.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if i.Token != nil {
		if token := i.Token(); token != "" && req.Header.Get("Authorization") == "" {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusUnauthorized && !isAuthPath(req.URL.Path) && i.OnUnauthorized != nil {
		i.OnUnauthorized()
	}
	return res, nil
}

func isAuthPath(path string) bool {
	for _, p := range authPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
