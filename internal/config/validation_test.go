package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Engine: "postgresql",
			Host:   "db",
			Port:   5432,
			Name:   "app",
			User:   "app",
		},
		Mode:          ModeDevelopment,
		RunMigrations: true,
		App: AppConfig{
			Port:            8000,
			Python:          "python",
			ManagePy:        "manage.py",
			WSGIModule:      "game_api.wsgi:application",
			HealthcheckPath: "/health/",
		},
		Gunicorn: GunicornConfig{Workers: 3, Timeout: 120},
		Wait: WaitConfig{
			MaxAttempts:  60,
			Interval:     time.Second,
			ProbeTimeout: 3 * time.Second,
		},
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantField string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid production config",
			mutate: func(c *Config) { c.Mode = ModeProduction },
		},
		{
			name:      "unknown mode",
			mutate:    func(c *Config) { c.Mode = "staging" },
			wantField: "DJANGO_ENV",
		},
		{
			name:      "missing host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantField: "POSTGRES_HOST",
		},
		{
			name:      "database port out of range",
			mutate:    func(c *Config) { c.Database.Port = 70000 },
			wantField: "POSTGRES_PORT",
		},
		{
			name:   "ports at the bounds",
			mutate: func(c *Config) { c.Database.Port = 1; c.App.Port = 65535 },
		},
		{
			name:      "app port above range",
			mutate:    func(c *Config) { c.App.Port = 65536 },
			wantField: "APP_PORT",
		},
		{
			name:      "database port zero",
			mutate:    func(c *Config) { c.Database.Port = 0 },
			wantField: "POSTGRES_PORT",
		},
		{
			name:      "app port zero",
			mutate:    func(c *Config) { c.App.Port = 0 },
			wantField: "APP_PORT",
		},
		{
			name:      "zero workers",
			mutate:    func(c *Config) { c.Gunicorn.Workers = 0 },
			wantField: "GUNICORN_WORKERS",
		},
		{
			name:      "negative timeout",
			mutate:    func(c *Config) { c.Gunicorn.Timeout = -1 },
			wantField: "GUNICORN_TIMEOUT",
		},
		{
			name:      "zero attempts",
			mutate:    func(c *Config) { c.Wait.MaxAttempts = 0 },
			wantField: "WAIT_MAX_ATTEMPTS",
		},
		{
			name:      "negative interval",
			mutate:    func(c *Config) { c.Wait.Interval = -time.Second },
			wantField: "WAIT_INTERVAL",
		},
		{
			name:      "zero probe timeout",
			mutate:    func(c *Config) { c.Wait.ProbeTimeout = 0 },
			wantField: "WAIT_PROBE_TIMEOUT",
		},
		{
			name:      "missing manage.py",
			mutate:    func(c *Config) { c.App.ManagePy = "" },
			wantField: "PYTHON",
		},
		{
			name:      "relative health path",
			mutate:    func(c *Config) { c.App.HealthcheckPath = "health" },
			wantField: "HEALTHCHECK_PATH",
		},
		{
			name:   "unsupported engine is left to the prober",
			mutate: func(c *Config) { c.Database.Engine = "mysql" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := ValidateConfig(cfg)
			if tt.wantField == "" {
				if errs.HasErrors() {
					t.Fatalf("unexpected errors: %v", errs)
				}
				return
			}
			if !errs.HasErrors() {
				t.Fatalf("expected error on %s, got none", tt.wantField)
			}
			if !strings.Contains(errs.Error(), tt.wantField) {
				t.Errorf("error %q does not mention %s", errs.Error(), tt.wantField)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	}

	got := errs.Error()
	expected := "a: first; b: second"
	if got != expected {
		t.Errorf("Error() = %q, want %q", got, expected)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should have empty message")
	}
}
