package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/oauth2"
)

// Client performs the OAuth dance against configured providers.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates an OAuth client from configuration.
func NewClient(config *Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// providerConfig returns the enabled configuration for a provider.
func (c *Client) providerConfig(provider Provider) (*ProviderConfig, error) {
	pc, ok := c.config.Providers[string(provider)]
	if !ok {
		return nil, ErrUnsupportedProvider
	}
	if !pc.Enabled {
		return nil, ErrProviderDisabled
	}
	return pc, nil
}

// oauth2Config adapts a provider configuration for golang.org/x/oauth2.
func oauth2Config(pc *ProviderConfig) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     pc.ClientID,
		ClientSecret: pc.ClientSecret,
		RedirectURL:  pc.RedirectURL,
		Scopes:       pc.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  pc.AuthURL,
			TokenURL: pc.TokenURL,
		},
	}
}

// AuthorizationURL builds the provider consent page URL for the given state.
func (c *Client) AuthorizationURL(provider Provider, state string) (string, error) {
	pc, err := c.providerConfig(provider)
	if err != nil {
		return "", err
	}
	return oauth2Config(pc).AuthCodeURL(state), nil
}

// ExchangeCode exchanges an authorization code for provider tokens.
func (c *Client) ExchangeCode(ctx context.Context, provider Provider, code string) (*TokenResponse, error) {
	pc, err := c.providerConfig(provider)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := oauth2Config(pc).Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if token.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	resp := &TokenResponse{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if !token.Expiry.IsZero() {
		resp.ExpiresIn = int(time.Until(token.Expiry).Seconds())
	}
	return resp, nil
}

// GetUserProfile fetches the user profile from the provider userinfo endpoint.
func (c *Client) GetUserProfile(ctx context.Context, provider Provider, accessToken string) (*Profile, error) {
	pc, err := c.providerConfig(provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case ProviderFacebook:
		return c.facebookProfile(ctx, pc, accessToken)
	case ProviderGoogle:
		return c.googleProfile(ctx, pc, accessToken)
	case ProviderGitHub:
		return c.githubProfile(ctx, pc, accessToken)
	default:
		return nil, ErrUnsupportedProvider
	}
}

// facebookUserInfoParams selects the Graph API fields for the profile call.
type facebookUserInfoParams struct {
	Fields string `url:"fields"`
}

// facebookProfile fetches the profile from the Graph API.
func (c *Client) facebookProfile(ctx context.Context, pc *ProviderConfig, accessToken string) (*Profile, error) {
	params, err := query.Values(facebookUserInfoParams{Fields: "id,name,email,picture"})
	if err != nil {
		return nil, err
	}

	var result struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := c.getJSON(ctx, pc.UserInfoURL+"?"+params.Encode(), accessToken, &result); err != nil {
		return nil, err
	}

	return &Profile{
		ID:       result.ID,
		Name:     result.Name,
		Email:    result.Email,
		Avatar:   result.Picture.Data.URL,
		Provider: string(ProviderFacebook),
		Verified: result.Email != "",
	}, nil
}

// googleProfile fetches the profile from the userinfo endpoint.
func (c *Client) googleProfile(ctx context.Context, pc *ProviderConfig, accessToken string) (*Profile, error) {
	var result struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		Picture       string `json:"picture"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := c.getJSON(ctx, pc.UserInfoURL, accessToken, &result); err != nil {
		return nil, err
	}

	return &Profile{
		ID:       result.ID,
		Name:     result.Name,
		Email:    result.Email,
		Avatar:   result.Picture,
		Provider: string(ProviderGoogle),
		Verified: result.VerifiedEmail,
	}, nil
}

// githubProfile fetches the profile from the user endpoint.
func (c *Client) githubProfile(ctx context.Context, pc *ProviderConfig, accessToken string) (*Profile, error) {
	var result struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.getJSON(ctx, pc.UserInfoURL, accessToken, &result); err != nil {
		return nil, err
	}

	name := result.Name
	if name == "" {
		name = result.Login
	}
	return &Profile{
		ID:       fmt.Sprintf("%d", result.ID),
		Name:     name,
		Email:    result.Email,
		Avatar:   result.AvatarURL,
		Provider: string(ProviderGitHub),
		Verified: result.Email != "",
	}, nil
}

// getJSON performs an authenticated GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
