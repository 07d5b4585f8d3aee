package config

import "github.com/spf13/viper"

// Data database config struct
type Data struct {
	Driver string
	Source string
}

// getDataConfig returns the database config.
func getDataConfig(v *viper.Viper) *Data {
	d := &Data{
		Driver: v.GetString("data.database.driver"),
		Source: v.GetString("data.database.source"),
	}
	if d.Driver == "" {
		d.Driver = "sqlite3"
	}
	if d.Source == "" {
		d.Source = "shopauth.db"
	}
	return d
}
