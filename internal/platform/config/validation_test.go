package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid header-mode configuration.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "quotefault",
			Version:     "1.0.0",
			Environment: "test",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  15 * time.Second,
			MaxRequestSize:  1 << 20,
			CORSAllowOrigin: "*",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			Mode:           AuthModeHeader,
			UsernameHeader: "X-User-ID",
			Session: SessionConfig{
				CookieName: "quotefault_session",
				TTL:        time.Hour,
			},
			PrivilegedGroup: "rtp",
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          "file::memory:?cache=shared",
			MaxOpenConns: 1,
		},
		Directory: DirectoryConfig{
			URL:          "ldaps://ldap.example.edu:636",
			BindDN:       "cn=quotefault,ou=Apps,dc=example,dc=edu",
			UsersBaseDN:  "cn=users,dc=example,dc=edu",
			GroupsBaseDN: "cn=groups,dc=example,dc=edu",
			MemberGroup:  "member",
			Timeout:      5 * time.Second,
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 1,
			},
		},
		Cache:  CacheConfig{MemberCapacity: 8192},
		Quotes: QuotesConfig{DefaultPageSize: 10},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "invalid environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantMsg: "app.environment must be one of",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantMsg: "server.port must be at most 65535",
		},
		{
			name:    "cors origin without scheme",
			mutate:  func(c *Config) { c.Server.CORSAllowOrigin = "quotes.example.com" },
			wantMsg: "server.corsalloworigin failed validation",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantMsg: "log.format must be one of",
		},
		{
			name: "log file without path",
			mutate: func(c *Config) {
				c.Log.File.Enabled = true
				c.Log.File.Path = ""
			},
			wantMsg: "log.file.path is required when Enabled true",
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Auth.Mode = "basic" },
			wantMsg: "auth.mode must be one of: header oidc",
		},
		{
			name:    "header mode needs a username header",
			mutate:  func(c *Config) { c.Auth.UsernameHeader = "" },
			wantMsg: "auth.usernameheader is required when Mode header",
		},
		{
			name:    "oidc mode needs a client registration",
			mutate:  func(c *Config) { c.Auth.Mode = AuthModeOIDC },
			wantMsg: "auth.oidc.issuer is required",
		},
		{
			name:    "unsupported driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantMsg: "database.driver must be one of: sqlite postgres",
		},
		{
			name:    "directory url",
			mutate:  func(c *Config) { c.Directory.URL = "not a url" },
			wantMsg: "directory.url must be a valid URL",
		},
		{
			name:    "circuit breaker half open limit",
			mutate:  func(c *Config) { c.Directory.CircuitBreaker.HalfOpenLimit = 0 },
			wantMsg: "directory.circuitbreaker.halfopenlimit is required",
		},
		{
			name:    "member cache capacity",
			mutate:  func(c *Config) { c.Cache.MemberCapacity = -1 },
			wantMsg: "cache.membercapacity must be at least 1",
		},
		{
			name:    "page size above maximum",
			mutate:  func(c *Config) { c.Quotes.DefaultPageSize = 500 },
			wantMsg: "quotes.defaultpagesize must be at most 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestConfig_Validate_OIDCComplete(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Mode = AuthModeOIDC
	cfg.Auth.OIDC = OIDCConfig{
		Issuer:       "https://sso.example.edu/auth/realms/example",
		ClientID:     "quotefault",
		ClientSecret: "s3cr3t",
		RedirectURL:  "https://quotefault.example.edu/auth/callback",
	}

	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "app is required")
	assert.Contains(t, msg, "database is required")
}

func TestFormatFieldPath(t *testing.T) {
	tests := map[string]string{
		"Config.Server.Port":                      "server.port",
		"Config.Directory.CircuitBreaker.Timeout": "directory.circuitbreaker.timeout",
		"OIDCConfig.Issuer":                       "issuer",
	}

	for in, want := range tests {
		assert.Equal(t, want, formatFieldPath(in))
	}
}
