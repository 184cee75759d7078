package config

import "time"

// Backend selects the family of persistence and auth collaborators.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSupabase Backend = "supabase"
)

// Config is the root application configuration.
type Config struct {
	Backend  Backend        `yaml:"backend" env:"SOLUTIONS_BACKEND" env-default:"postgres"`
	Database DatabaseConfig `yaml:"database"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Console  ConsoleConfig  `yaml:"console"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"5"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SupabaseConfig holds the hosted project settings.
type SupabaseConfig struct {
	URL     string        `yaml:"url"      env:"SUPABASE_URL"`
	AnonKey string        `yaml:"anon_key" env:"SUPABASE_ANON_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"SUPABASE_TIMEOUT"  env-default:"10s"`
}

// AuthConfig holds local session settings. JWT fields apply to the postgres
// backend only; the session file is used by both.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"`
	JWTIssuer        string        `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"         env-default:"solutions-manager"`
	SessionTTL       time.Duration `yaml:"session_ttl"        env:"AUTH_SESSION_TTL"        env-default:"12h"`
	PasswordHashCost int           `yaml:"password_hash_cost" env:"AUTH_PASSWORD_HASH_COST" env-default:"12"`
	SessionFile      string        `yaml:"session_file"       env:"AUTH_SESSION_FILE"`
}

// LogConfig holds logging settings. File keeps log output off the terminal the
// console is drawn on; it defaults to solutions.log next to the session file.
// The value "stderr" logs to standard error instead.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
	File   string `yaml:"file"   env:"LOG_FILE"`
}

// ConsoleConfig holds terminal rendering settings.
type ConsoleConfig struct {
	Color bool `yaml:"color" env:"CONSOLE_COLOR" env-default:"true"`
}
