package constants

import (
	"strconv"
	"time"
)

// Application server defaults
const (
	AppPort          = 8000
	BindHost         = "0.0.0.0"
	DefaultWSGI      = "game_api.wsgi:application"
	DefaultPython    = "python"
	DefaultManagePy  = "manage.py"
	GunicornBinary   = "gunicorn"
	GunicornWorkers  = 3
	GunicornTimeout  = 120
	HealthcheckPath  = "/health/"
	HealthcheckLocal = "127.0.0.1"
)

// Database defaults
const (
	DBEngine  = "postgresql"
	DBHost    = "db"
	DBPort    = 5432
	DBName    = "postgres"
	DBUser    = "postgres"
	DBSSLMode = "prefer"
)

// TCP port bounds for APP_PORT and POSTGRES_PORT
const (
	MinPort = 1
	MaxPort = 65535
)

// Wait loop defaults
const (
	WaitMaxAttempts  = 60
	WaitInterval     = 1 * time.Second
	WaitProbeTimeout = 3 * time.Second
)

// Healthcheck defaults
const (
	HealthCheckTimeout  = 5 * time.Second
	HealthCheckRetries  = 1
	HealthCheckInterval = 2 * time.Second
)

// Process exit codes
const (
	ExitOK              = 0
	ExitFailure         = 1
	ExitSetup           = 2
	ExitCommandNotFound = 127
)

// ListenAddr returns the address the dispatched server binds to.
func ListenAddr(port int) string {
	return BindHost + ":" + strconv.Itoa(port)
}

// HealthcheckURL returns the URL polled by the healthcheck subcommand.
func HealthcheckURL(port int, path string) string {
	return "http://" + HealthcheckLocal + ":" + strconv.Itoa(port) + path
}
