// Package config loads the application configuration from a viper-backed
// YAML file, one section getter per concern.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/ncobase/shopauth/logging/logger"
	"github.com/spf13/viper"
)

var (
	config *Config
	mu     sync.Mutex
	v      = viper.New()
	path   string
)

// Config represents the configuration implementation.
type Config struct {
	AppName  string
	RunMode  string
	Protocol string
	Domain   string
	Host     string
	Port     int
	Auth     *Auth
	Frontend *Frontend
	Logger   *logger.Config
	Data     *Data
	Storage  *Storage
	OAuth    *OAuth
	Email    *Email
	Viper    *viper.Viper
}

// IsProduction reports whether the server runs in production mode.
// Cookie Secure flags key off this.
func (c *Config) IsProduction() bool {
	return c.RunMode == "production" || c.RunMode == "release"
}

// LoadConfig loads the configuration from the file.
func LoadConfig(configPath string) (*Config, error) {
	path = configPath
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		ex, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to get executable path: %w", err)
		}
		v.SetConfigName("config")
		v.AddConfigPath("/etc/shopauth")
		v.AddConfigPath("$HOME/.shopauth")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(ex))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		AppName:  v.GetString("app_name"),
		RunMode:  v.GetString("run_mode"),
		Protocol: v.GetString("server.protocol"),
		Domain:   v.GetString("server.domain"),
		Host:     v.GetString("server.host"),
		Port:     v.GetInt("server.port"),
		Auth:     getAuth(v),
		Frontend: getFrontendConfig(v),
		Logger:   getLoggerConfig(v),
		Data:     getDataConfig(v),
		Storage:  getStorageConfig(v),
		OAuth:    getOAuthConfig(v),
		Email:    getEmailConfig(v),
		Viper:    v,
	}

	config = cfg
	return cfg, nil
}

// Reload reloads the configuration from the file.
func Reload() error {
	mu.Lock()
	defer mu.Unlock()

	newConfig, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	config = newConfig
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config)) {
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		if err := Reload(); err != nil {
			fmt.Printf("Error reloading config: %v\n", err)
			return
		}
		callback(config)
	})
}
