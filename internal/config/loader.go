package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rpattn/dddkit/internal/db"
)

// Translation targets.
const (
	TargetSQL  = "sql"
	TargetGorm = "gorm"
)

// Config is the criteriactl configuration.
type Config struct {
	LogMode string
	Target  string
	Table   string
	// Columns maps field names to column names. Viper folds keys to lower
	// case, so lookups against it must ignore case.
	Columns  map[string]string
	Database db.Config
	// File is the config file that was read, empty when none was found.
	File string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogMode:  "dev",
		Target:   TargetSQL,
		Columns:  map[string]string{},
		Database: db.DefaultConfig(),
	}
}

// Load reads config.yaml from configPath when present, then applies
// CRITERIACTL_* environment overrides, e.g. CRITERIACTL_TRANSLATE_TARGET.
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.SetEnvPrefix("CRITERIACTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"log.mode",
		"translate.target",
		"translate.table",
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
	} {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if configPath != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("failed to read config: %w", err)
			}
		} else {
			cfg.File = v.ConfigFileUsed()
		}
	}

	if v.IsSet("log.mode") {
		cfg.LogMode = v.GetString("log.mode")
	}
	if v.IsSet("translate.target") {
		cfg.Target = strings.ToLower(v.GetString("translate.target"))
	}
	if v.IsSet("translate.table") {
		cfg.Table = v.GetString("translate.table")
	}
	if v.IsSet("translate.columns") {
		cfg.Columns = v.GetStringMapString("translate.columns")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot type check.
func (c Config) Validate() error {
	switch c.Target {
	case TargetSQL, TargetGorm:
	default:
		return fmt.Errorf("unknown translate target %q", c.Target)
	}
	if c.Database.Port <= 0 {
		return fmt.Errorf("invalid database port %d", c.Database.Port)
	}
	return nil
}
