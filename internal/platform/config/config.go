// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort     = 8080
	DefaultMaxRequestSize = 1 << 20

	// DefaultMemberCacheCapacity bounds the per-username member cache.
	DefaultMemberCacheCapacity = 8192

	DefaultPageSize = 10

	DefaultDirectoryCircuitMaxFailures   = 5
	DefaultDirectoryCircuitHalfOpenLimit = 1

	DefaultDBMaxOpenConns = 10
	DefaultDBMaxIdleConns = 5

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28
)

// Authentication modes for session-gated routes.
const (
	// AuthModeHeader trusts identity headers set by an authenticating proxy.
	AuthModeHeader = "header"

	// AuthModeOIDC runs the OpenID Connect login flow and keeps server-side sessions.
	AuthModeOIDC = "oidc"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"      validate:"required"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Directory DirectoryConfig `koanf:"directory" validate:"required"`
	Cache     CacheConfig     `koanf:"cache"     validate:"required"`
	Quotes    QuotesConfig    `koanf:"quotes"    validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"required,min=100ms"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`

	// CORSAllowOrigin is the browser origin admitted on the API-key routes,
	// or "*" for any origin.
	CORSAllowOrigin string `koanf:"cors_allow_origin" validate:"required,eq=*|http_url"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig selects how session-gated routes learn who the caller is.
type AuthConfig struct {
	Mode string `koanf:"mode" validate:"required,oneof=header oidc"`

	// Header mode.
	UsernameHeader string `koanf:"username_header" validate:"required_if=Mode header"`
	SubjectHeader  string `koanf:"subject_header"`

	// OIDC mode. Checked separately because it only applies when Mode is oidc.
	OIDC    OIDCConfig    `koanf:"oidc"    validate:"-"`
	Session SessionConfig `koanf:"session" validate:"required"`

	// PrivilegedGroup is the directory group allowed to moderate.
	PrivilegedGroup string `koanf:"privileged_group" validate:"required"`
}

// OIDCConfig contains the relying-party registration.
type OIDCConfig struct {
	Issuer       string   `koanf:"issuer"        validate:"required,url"`
	ClientID     string   `koanf:"client_id"     validate:"required"`
	ClientSecret string   `koanf:"client_secret" validate:"required"`
	RedirectURL  string   `koanf:"redirect_url"  validate:"required,url"`
	Scopes       []string `koanf:"scopes"`
}

// SessionConfig controls the login session cookie.
type SessionConfig struct {
	CookieName string        `koanf:"cookie_name" validate:"required"`
	TTL        time.Duration `koanf:"ttl"         validate:"required,min=1m"`
	Secure     bool          `koanf:"secure"`
}

// DatabaseConfig selects and tunes the quote database.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=sqlite postgres"`
	DSN             string        `koanf:"dsn"               validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	Tracing         bool          `koanf:"tracing"`
}

// DirectoryConfig points at the LDAP member directory.
type DirectoryConfig struct {
	URL          string        `koanf:"url"            validate:"required,url"`
	BindDN       string        `koanf:"bind_dn"        validate:"required"`
	BindPassword string        `koanf:"bind_password"`
	UsersBaseDN  string        `koanf:"users_base_dn"  validate:"required"`
	GroupsBaseDN string        `koanf:"groups_base_dn" validate:"required"`
	MemberGroup  string        `koanf:"member_group"   validate:"required"`
	Timeout      time.Duration `koanf:"timeout"        validate:"required,min=100ms"`
	StartTLS     bool          `koanf:"start_tls"`

	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
}

// CircuitBreakerConfig contains circuit breaker settings for the directory client.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// CacheConfig sizes the membership cache.
type CacheConfig struct {
	MemberCapacity int `koanf:"member_capacity" validate:"required,min=1"`
}

// QuotesConfig holds quote listing settings.
type QuotesConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"required,min=1,max=100"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "quotefault",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":              DefaultServerPort,
		"server.host":              "0.0.0.0",
		"server.read_timeout":      "30s",
		"server.write_timeout":     "30s",
		"server.idle_timeout":      "120s",
		"server.shutdown_timeout":  "10s",
		"server.request_timeout":   "15s",
		"server.max_request_size":  DefaultMaxRequestSize,
		"server.cors_allow_origin": "*",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/quotefault.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "quotefault",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.mode":                AuthModeHeader,
		"auth.username_header":     "X-User-ID",
		"auth.subject_header":      "X-User-Subject",
		"auth.oidc.scopes":         []string{"openid", "profile", "email"},
		"auth.session.cookie_name": "quotefault_session",
		"auth.session.ttl":         "12h",
		"auth.session.secure":      true,
		"auth.privileged_group":    "rtp",

		"database.driver":            DriverSQLite,
		"database.dsn":               "file:quotefault.db?_pragma=busy_timeout(5000)",
		"database.max_open_conns":    DefaultDBMaxOpenConns,
		"database.max_idle_conns":    DefaultDBMaxIdleConns,
		"database.conn_max_lifetime": "30m",
		"database.auto_migrate":      true,
		"database.tracing":           true,

		"directory.url":                             "ldaps://ldap.csh.rit.edu:636",
		"directory.bind_dn":                         "cn=quotefault,ou=Apps,dc=csh,dc=rit,dc=edu",
		"directory.bind_password":                   "",
		"directory.users_base_dn":                   "cn=users,cn=accounts,dc=csh,dc=rit,dc=edu",
		"directory.groups_base_dn":                  "cn=groups,cn=accounts,dc=csh,dc=rit,dc=edu",
		"directory.member_group":                    "member",
		"directory.timeout":                         "5s",
		"directory.start_tls":                       false,
		"directory.circuit_breaker.max_failures":    DefaultDirectoryCircuitMaxFailures,
		"directory.circuit_breaker.timeout":         "30s",
		"directory.circuit_breaker.half_open_limit": DefaultDirectoryCircuitHalfOpenLimit,

		"cache.member_capacity": DefaultMemberCacheCapacity,

		"quotes.default_page_size": DefaultPageSize,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		err := loadFileIfExists(k, fmt.Sprintf("configs/%s.yaml", profile))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err = k.Load(env.Provider("APP_", ".", envKeyMapper(k.Keys())), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_DATABASE_MAX_OPEN_CONNS to database.max_open_conns.
// Known keys are matched first so that underscores inside a key survive;
// anything else has every underscore turned into a path separator.
func envKeyMapper(knownKeys []string) func(string) string {
	known := make(map[string]string, len(knownKeys))
	for _, key := range knownKeys {
		known[strings.ReplaceAll(key, ".", "_")] = key
	}

	return func(s string) string {
		name := strings.ToLower(strings.TrimPrefix(s, "APP_"))
		if key, ok := known[name]; ok {
			return key
		}

		return strings.ReplaceAll(name, "_", ".")
	}
}

// loadFileIfExists loads a YAML config file if it exists.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
