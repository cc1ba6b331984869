// Package config loads rolectl settings from flags, ROLECTL_ environment
// variables and an optional .rolectl.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goRoles "github.com/MrEthical07/goRoles"
	"github.com/spf13/viper"
)

// Config is the complete rolectl configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// APIConfig locates the role API.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ResourcePath string        `mapstructure:"resource_path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	RateLimit    float64       `mapstructure:"rate_limit"`
}

// SessionConfig controls how sessions are kept between invocations.
type SessionConfig struct {
	Profile              string        `mapstructure:"profile"`
	Prefix               string        `mapstructure:"prefix"`
	TTL                  time.Duration `mapstructure:"ttl"`
	LogoutOnUnauthorized bool          `mapstructure:"logout_on_unauthorized"`
}

// RefreshConfig controls the refresh timer used by watch.
type RefreshConfig struct {
	Lead time.Duration `mapstructure:"lead"`
}

// RedisConfig locates the session store. An empty Addr keeps sessions in
// memory for the lifetime of one command.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Colors bool   `mapstructure:"colors"`
	Format string `mapstructure:"format"`
}

// Load reads configuration into a Config. v may carry flag bindings made by
// the caller; a nil v starts from an empty viper.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".rolectl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/rolectl")
	}

	v.SetEnvPrefix("ROLECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := goRoles.DefaultConfig()

	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.resource_path", def.API.ResourcePath)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("api.user_agent", "rolectl")
	v.SetDefault("api.rate_limit", 0)

	v.SetDefault("session.profile", def.Session.Profile)
	v.SetDefault("session.prefix", "rolectl")
	v.SetDefault("session.ttl", def.Session.PersistTTL)
	v.SetDefault("session.logout_on_unauthorized", true)

	v.SetDefault("refresh.lead", def.Refresh.Lead)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "info")

	v.SetDefault("output.colors", true)
	v.SetDefault("output.format", "table")
}

func validate(cfg *Config) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", cfg.Logging.Level)
	}
	validFormats := map[string]bool{"table": true, "json": true}
	if !validFormats[cfg.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be table or json)", cfg.Output.Format)
	}
	if cfg.Session.Profile == "" {
		return errors.New("session profile must not be empty")
	}
	if cfg.Redis.DB < 0 {
		return errors.New("redis db must be >= 0")
	}
	clientCfg := cfg.Client()
	return clientCfg.Validate()
}

// Client maps cfg onto the library configuration.
func (c *Config) Client() goRoles.Config {
	out := goRoles.DefaultConfig()
	out.API.BaseURL = c.API.BaseURL
	out.API.ResourcePath = c.API.ResourcePath
	out.API.Timeout = c.API.Timeout
	out.API.UserAgent = c.API.UserAgent
	out.Transport.RateLimit = c.API.RateLimit
	if c.API.RateLimit > 0 && out.Transport.Burst < 1 {
		out.Transport.Burst = 1
	}
	out.Session.RedisPrefix = c.Session.Prefix
	out.Session.Profile = c.Session.Profile
	out.Session.PersistTTL = c.Session.TTL
	out.Session.LogoutOnUnauthorized = c.Session.LogoutOnUnauthorized
	out.Refresh.Lead = c.Refresh.Lead
	out.Navigation.LoginRoute = "login"
	return out
}
