package oauth

import "github.com/spf13/viper"

// Config represents OAuth configuration
type Config struct {
	Providers   map[string]*ProviderConfig `json:"providers" yaml:"providers"`
	StateSecret string                     `json:"state_secret" yaml:"state_secret"`
}

// ProviderConfig represents OAuth provider configuration
type ProviderConfig struct {
	ClientID     string   `json:"client_id" yaml:"client_id"`
	ClientSecret string   `json:"client_secret" yaml:"client_secret"`
	RedirectURL  string   `json:"redirect_url" yaml:"redirect_url"`
	Scopes       []string `json:"scopes" yaml:"scopes"`
	AuthURL      string   `json:"auth_url" yaml:"auth_url"`
	TokenURL     string   `json:"token_url" yaml:"token_url"`
	UserInfoURL  string   `json:"user_info_url" yaml:"user_info_url"`
	Enabled      bool     `json:"enabled" yaml:"enabled"`
}

// GetConfig loads OAuth configuration from viper
func GetConfig(v *viper.Viper) *Config {
	config := &Config{
		Providers:   make(map[string]*ProviderConfig),
		StateSecret: v.GetString("oauth.state_secret"),
	}

	for _, provider := range GetSupportedProviders() {
		if v.IsSet("oauth." + provider) {
			config.Providers[provider] = getProviderConfig(v, provider)
		}
	}

	return config
}

// getProviderConfig loads provider-specific configuration
func getProviderConfig(v *viper.Viper, provider string) *ProviderConfig {
	prefix := "oauth." + provider

	pc := &ProviderConfig{
		ClientID:     v.GetString(prefix + ".client_id"),
		ClientSecret: v.GetString(prefix + ".client_secret"),
		RedirectURL:  v.GetString(prefix + ".redirect_url"),
		Scopes:       v.GetStringSlice(prefix + ".scopes"),
		AuthURL:      v.GetString(prefix + ".auth_url"),
		TokenURL:     v.GetString(prefix + ".token_url"),
		UserInfoURL:  v.GetString(prefix + ".user_info_url"),
		Enabled:      v.GetBool(prefix + ".enabled"),
	}

	setProviderDefaults(provider, pc)
	return pc
}

// setProviderDefaults sets default URLs and scopes for known providers
func setProviderDefaults(provider string, config *ProviderConfig) {
	switch provider {
	case "google":
		if config.AuthURL == "" {
			config.AuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
		}
		if config.TokenURL == "" {
			config.TokenURL = "https://oauth2.googleapis.com/token"
		}
		if config.UserInfoURL == "" {
			config.UserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
		}
		if len(config.Scopes) == 0 {
			config.Scopes = []string{"openid", "email", "profile"}
		}

	case "facebook":
		if config.AuthURL == "" {
			config.AuthURL = "https://www.facebook.com/v18.0/dialog/oauth"
		}
		if config.TokenURL == "" {
			config.TokenURL = "https://graph.facebook.com/v18.0/oauth/access_token"
		}
		if config.UserInfoURL == "" {
			config.UserInfoURL = "https://graph.facebook.com/v18.0/me"
		}
		if len(config.Scopes) == 0 {
			config.Scopes = []string{"email", "public_profile"}
		}

	case "github":
		if config.AuthURL == "" {
			config.AuthURL = "https://github.com/login/oauth/authorize"
		}
		if config.TokenURL == "" {
			config.TokenURL = "https://github.com/login/oauth/access_token"
		}
		if config.UserInfoURL == "" {
			config.UserInfoURL = "https://api.github.com/user"
		}
		if len(config.Scopes) == 0 {
			config.Scopes = []string{"user:email"}
		}
	}
}

// GetSupportedProviders returns list of supported providers
func GetSupportedProviders() []string {
	return []string{
		string(ProviderGoogle),
		string(ProviderFacebook),
		string(ProviderGitHub),
	}
}

// ValidateProvider checks if provider is supported
func ValidateProvider(provider string) bool {
	for _, p := range GetSupportedProviders() {
		if p == provider {
			return true
		}
	}
	return false
}
