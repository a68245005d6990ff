package config

import (
	"strings"
	"time"
)

// Mode selects the bootstrap policy and the default dispatched command.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// NormalizeMode maps the accepted DJANGO_ENV spellings to a Mode.
// Unknown values are returned lowercased so validation can report them.
func NormalizeMode(raw string) Mode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "dev", "development", "local":
		return ModeDevelopment
	case "prod", "production":
		return ModeProduction
	default:
		return Mode(strings.ToLower(strings.TrimSpace(raw)))
	}
}

// Config is the resolved entrypoint configuration
type Config struct {
	Database        DatabaseConfig `mapstructure:"database" yaml:"database"`
	Mode            Mode           `mapstructure:"mode" yaml:"mode"`
	RunMigrations   bool           `mapstructure:"run_migrations" yaml:"run_migrations"`
	CompileMessages bool           `mapstructure:"compile_messages" yaml:"compile_messages"`
	App             AppConfig      `mapstructure:"app" yaml:"app"`
	Gunicorn        GunicornConfig `mapstructure:"gunicorn" yaml:"gunicorn"`
	Wait            WaitConfig     `mapstructure:"wait" yaml:"wait"`
	Log             LogConfig      `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig holds the connection parameters of the database the
// application depends on.
type DatabaseConfig struct {
	Engine   string `mapstructure:"engine" yaml:"engine"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	Name     string `mapstructure:"name" yaml:"name"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// AppConfig holds how the Django project is invoked
type AppConfig struct {
	Port            int    `mapstructure:"port" yaml:"port"`
	Python          string `mapstructure:"python" yaml:"python"`
	ManagePy        string `mapstructure:"manage_py" yaml:"manage_py"`
	WSGIModule      string `mapstructure:"wsgi_module" yaml:"wsgi_module"`
	HealthcheckPath string `mapstructure:"healthcheck_path" yaml:"healthcheck_path"`
}

// GunicornConfig holds production server tuning
type GunicornConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// WaitConfig bounds the wait-for-database loop
type WaitConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	Interval     time.Duration `mapstructure:"interval" yaml:"interval"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// IsProduction reports whether the production policy applies.
func (c *Config) IsProduction() bool {
	return c.Mode == ModeProduction
}

// Redacted returns a copy safe to print, with the password masked.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "****"
	}
	return c
}
