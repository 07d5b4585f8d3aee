package config

import (
	"github.com/ncobase/shopauth/storage"
	"github.com/spf13/viper"
)

// Storage is the object storage configuration for avatar uploads.
type Storage = storage.Config

// getStorageConfig get storage config
func getStorageConfig(v *viper.Viper) *Storage {
	return storage.GetConfig(v)
}
