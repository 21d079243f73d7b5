package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formbuilder/pkg/entity"
)

// EnvPrefix namespaces environment overrides, e.g. FORMBUILDER_SERVER_ADDR.
const EnvPrefix = "FORMBUILDER"

type Config struct {
	Templates TemplatesConfig `mapstructure:"templates"`
	Routes    RoutesConfig    `mapstructure:"routes"`
	Policy    PolicyConfig    `mapstructure:"policy"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
}

// RoutesConfig selects the route resolver: a route table file or an OpenAPI
// document whose operationIds name the routes.
type RoutesConfig struct {
	File    string `mapstructure:"file"`
	OpenAPI string `mapstructure:"openapi"`
	BaseURL string `mapstructure:"base_url"`
}

type PolicyConfig struct {
	File   string `mapstructure:"file"`
	Strict bool   `mapstructure:"strict"`
}

type I18nConfig struct {
	Dir      string `mapstructure:"dir"`
	Locale   string `mapstructure:"locale"`
	Fallback string `mapstructure:"fallback"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
	Key    string `mapstructure:"key"`
}

// Enabled reports whether entity lookups are configured.
func (d DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(d.DSN) != "" && strings.TrimSpace(d.Table) != ""
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	JWTSecret   string   `mapstructure:"jwt_secret"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	Metrics     bool     `mapstructure:"metrics"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlogLevel parses Level into a slog.Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", l.Level, err)
	}
	return level, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("templates.dir", "templates")
	v.SetDefault("routes.file", "")
	v.SetDefault("routes.openapi", "")
	v.SetDefault("routes.base_url", "")
	v.SetDefault("policy.file", "")
	v.SetDefault("policy.strict", false)
	v.SetDefault("i18n.dir", "")
	v.SetDefault("i18n.locale", "en")
	v.SetDefault("i18n.fallback", "en")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.table", "")
	v.SetDefault("database.key", "id")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.metrics", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from path, or from formbuilder.{yaml,json,toml} in
// the working directory when path is empty. A missing default file is not an
// error. FORMBUILDER_* environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("formbuilder")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Routes.File != "" && c.Routes.OpenAPI != "" {
		return errors.New("config: routes.file and routes.openapi are mutually exclusive")
	}
	driver, err := entity.NormalizeDriver(c.Database.Driver)
	if err != nil {
		return fmt.Errorf("config: database.driver %q must be sqlite or postgres", c.Database.Driver)
	}
	c.Database.Driver = driver
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format %q must be text or json", c.Log.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}
