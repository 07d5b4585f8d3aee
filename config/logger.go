package config

import (
	"github.com/ncobase/shopauth/logging/logger"
	"github.com/spf13/viper"
)

// getLoggerConfig returns the logger config.
func getLoggerConfig(v *viper.Viper) *logger.Config {
	return &logger.Config{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}
