package config

import "github.com/spf13/viper"

// Frontend frontend config struct
type Frontend struct {
	// BaseURL is where the single-page app lives. Social callbacks
	// redirect back to it.
	BaseURL string
}

// SocialCallbackURL returns the SPA route that receives social-login results.
func (f *Frontend) SocialCallbackURL() string {
	return f.BaseURL + "/auth/social-callback"
}

// getFrontendConfig returns frontend config
func getFrontendConfig(v *viper.Viper) *Frontend {
	base := v.GetString("frontend.base_url")
	if base == "" {
		base = "http://localhost:4200"
	}
	return &Frontend{BaseURL: base}
}
