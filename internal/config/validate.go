package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPostgres:
		if err := c.validatePostgres(); err != nil {
			return err
		}
	case BackendSupabase:
		if err := c.Supabase.validate(); err != nil {
			return fmt.Errorf("supabase: %w", err)
		}
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", BackendPostgres, BackendSupabase, c.Backend)
	}

	if err := c.Log.validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.Auth.SessionFile == "" {
		c.Auth.SessionFile = DefaultSessionFile()
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(filepath.Dir(c.Auth.SessionFile), "solutions.log")
	}

	return nil
}

func (c *Config) validatePostgres() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres backend")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be > 0 (got %v)", c.Auth.SessionTTL)
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}
	return nil
}

func (s *SupabaseConfig) validate() error {
	if s.URL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("url must be absolute (got %q)", s.URL)
	}
	s.URL = strings.TrimRight(s.URL, "/")
	if s.AnonKey == "" {
		return fmt.Errorf("anon_key is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", s.Timeout)
	}
	return nil
}

func (l *LogConfig) validate() error {
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("format must be json or text (got %q)", l.Format)
	}
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("level must be debug, info, warn or error (got %q)", l.Level)
	}
	return nil
}

// DefaultSessionFile is the session file location used when none is configured.
func DefaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "solutions-manager", "session.json")
}
