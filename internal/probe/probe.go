// Package probe checks whether the application's database accepts
// connections. A probe makes one attempt and never retries.
package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yoanbernabeu/frankenboot/internal/config"
)

var (
	// ErrUnsupportedEngine means no prober is compiled in for the configured
	// engine. Waiting cannot fix it.
	ErrUnsupportedEngine = errors.New("no readiness probe for database engine")
	// ErrInvalidParams means the connection parameters cannot be turned into
	// a connection configuration. Waiting cannot fix it either.
	ErrInvalidParams = errors.New("invalid connection parameters")
)

// Prober attempts a single lightweight connection to a dependency.
type Prober interface {
	Probe(ctx context.Context) error
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context) error

// Probe calls f(ctx).
func (f ProberFunc) Probe(ctx context.Context) error {
	return f(ctx)
}

// IsPermanent reports whether err can never be resolved by waiting.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrUnsupportedEngine) || errors.Is(err, ErrInvalidParams)
}

// New returns the prober for the configured database engine.
func New(db config.DatabaseConfig, timeout time.Duration) (Prober, error) {
	switch config.NormalizeDBEngine(db.Engine) {
	case "postgresql":
		return NewPostgresProber(db, timeout)
	default:
		return nil, fmt.Errorf("%w: %q (only postgresql is supported)", ErrUnsupportedEngine, db.Engine)
	}
}
