// Package oauth implements the social sign-in flows: building provider
// authorization URLs, exchanging callback codes, and fetching profiles.
package oauth

// Provider represents OAuth provider type
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
	ProviderGitHub   Provider = "github"
)

// Profile represents user profile from OAuth provider
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Provider string `json:"provider"`
	Verified bool   `json:"verified"`
}

// TokenResponse represents OAuth token response
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// StateData represents OAuth state information
type StateData struct {
	Provider  string `json:"provider"`
	NextURL   string `json:"next_url,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Nonce     string `json:"nonce"`
}
