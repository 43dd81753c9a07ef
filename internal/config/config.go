package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	MecaLink *MecaLinkConfig `mapstructure:"mecalink"`
	Session  *SessionConfig  `mapstructure:"session"`
	Database *DatabaseConfig `mapstructure:"database"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	SQLite   *SQLiteConfig   `mapstructure:"sqlite"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	LogLevel           string   `mapstructure:"log_level"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type MecaLinkConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	DiagnosticURL string `mapstructure:"diagnostic_url"`
}

type SessionConfig struct {
	// Secret seals the sessions stored in the database.
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.log_level", "info")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("sqlite.path", "gateway.db")

	return v
}

// Load reads the YAML file at path. Every key can be overridden from the
// environment, e.g. API_PORT or MECALINK_BASE_URL.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config -> %w", err)
	}

	return conf, nil
}

// Watch calls onChange with the new configuration every time the file at
// path is written. Invalid versions are reported to onError and skipped.
func Watch(path string, onChange func(*AppConfig), onError func(error)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		conf, err := decode(v)
		if err != nil {
			onError(err)
			return
		}
		onChange(conf)
	})
	v.WatchConfig()

	return nil
}

func (c *AppConfig) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.API, validation.Required),
		validation.Field(&c.Gin, validation.Required),
		validation.Field(&c.MecaLink, validation.Required),
		validation.Field(&c.Session, validation.Required),
		validation.Field(&c.Database, validation.Required),
	)
}

func (c APIConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.JWTSigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

func (c GinConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Mode, validation.In("debug", "release", "test")),
	)
}

func (c MecaLinkConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.DiagnosticURL, validation.Required, is.URL),
	)
}

func (c SessionConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Secret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.TTL, validation.Required),
	)
}

func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(
		&c,
		validation.Field(&c.Driver, validation.Required, validation.In(DriverPostgres, DriverSQLite)),
	)
}
