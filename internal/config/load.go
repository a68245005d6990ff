package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/yoanbernabeu/frankenboot/internal/constants"
)

const (
	// DefaultEnvFile is loaded when present and ENV_FILE is unset
	DefaultEnvFile = ".env"
	// EnvFileVar names an explicit dotenv file; a missing explicit file is an error
	EnvFileVar = "ENV_FILE"
)

// envBindings maps config keys to the environment variables that feed them.
// The first variable that is set wins.
var envBindings = map[string][]string{
	"database.engine":      {"DB_ENGINE"},
	"database.host":        {"POSTGRES_HOST", "DB_HOST"},
	"database.port":        {"POSTGRES_PORT", "DB_PORT"},
	"database.name":        {"POSTGRES_DB", "DB_NAME"},
	"database.user":        {"POSTGRES_USER", "DB_USER"},
	"database.password":    {"POSTGRES_PASSWORD", "DB_PASSWORD"},
	"database.ssl_mode":    {"POSTGRES_SSLMODE", "DB_SSLMODE"},
	"mode":                 {"DJANGO_ENV"},
	"run_migrations":       {"RUN_MIGRATIONS"},
	"compile_messages":     {"COMPILE_MESSAGES"},
	"app.port":             {"APP_PORT"},
	"app.python":           {"PYTHON"},
	"app.manage_py":        {"MANAGE_PY"},
	"app.wsgi_module":      {"WSGI_MODULE"},
	"app.healthcheck_path": {"HEALTHCHECK_PATH"},
	"gunicorn.workers":     {"GUNICORN_WORKERS"},
	"gunicorn.timeout":     {"GUNICORN_TIMEOUT"},
	"wait.max_attempts":    {"WAIT_MAX_ATTEMPTS"},
	"wait.interval":        {"WAIT_INTERVAL"},
	"wait.probe_timeout":   {"WAIT_PROBE_TIMEOUT"},
	"log.level":            {"LOG_LEVEL"},
	"log.format":           {"LOG_FORMAT"},
}

// Load reads the optional dotenv file, then resolves the configuration from
// the process environment with defaults applied.
func Load() (*Config, error) {
	if err := LoadEnvFile(os.Getenv(EnvFileVar)); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	for key, names := range envBindings {
		args := append([]string{key}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Mode = NormalizeMode(string(cfg.Mode))
	cfg.Database.Engine = NormalizeDBEngine(cfg.Database.Engine)

	if errs := ValidateConfig(&cfg); errs.HasErrors() {
		return nil, errs
	}

	return &cfg, nil
}

// LoadEnvFile loads variables from a dotenv file without overriding the
// ones already present in the environment. An empty path loads .env when
// it exists and is silently skipped otherwise.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.engine", constants.DBEngine)
	v.SetDefault("database.host", constants.DBHost)
	v.SetDefault("database.port", constants.DBPort)
	v.SetDefault("database.name", constants.DBName)
	v.SetDefault("database.user", constants.DBUser)
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", constants.DBSSLMode)

	v.SetDefault("mode", string(ModeDevelopment))
	v.SetDefault("run_migrations", true)
	v.SetDefault("compile_messages", false)

	v.SetDefault("app.port", constants.AppPort)
	v.SetDefault("app.python", constants.DefaultPython)
	v.SetDefault("app.manage_py", constants.DefaultManagePy)
	v.SetDefault("app.wsgi_module", constants.DefaultWSGI)
	v.SetDefault("app.healthcheck_path", constants.HealthcheckPath)

	v.SetDefault("gunicorn.workers", constants.GunicornWorkers)
	v.SetDefault("gunicorn.timeout", constants.GunicornTimeout)

	v.SetDefault("wait.max_attempts", constants.WaitMaxAttempts)
	v.SetDefault("wait.interval", constants.WaitInterval)
	v.SetDefault("wait.probe_timeout", constants.WaitProbeTimeout)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// NormalizeDBEngine normalizes engine names to their canonical form.
// For example, "django.db.backends.postgresql" → "postgresql".
func NormalizeDBEngine(engine string) string {
	e := strings.ToLower(strings.TrimSpace(engine))
	e = strings.TrimPrefix(e, "django.db.backends.")
	switch e {
	case "", "postgresql", "postgres", "pgsql", "postgresql_psycopg2":
		return constants.DBEngine
	case "sqlite3", "pdo_sqlite":
		return "sqlite"
	case "mysqli", "pdo_mysql":
		return "mysql"
	default:
		return e
	}
}
