package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yoanbernabeu/frankenboot/internal/config"
	"github.com/yoanbernabeu/frankenboot/internal/security"
)

// dbPinger abstracts the pgx.Conn methods used by Probe so that tests
// can inject a fake without standing up a real database.
type dbPinger interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// PostgresProber opens a short-lived connection and pings it.
type PostgresProber struct {
	connCfg *pgx.ConnConfig
	timeout time.Duration
	dsn     string
	connect func(ctx context.Context, cfg *pgx.ConnConfig) (dbPinger, error)
}

// NewPostgresProber builds a prober from connection parameters. Nothing is
// dialed at construction time.
func NewPostgresProber(db config.DatabaseConfig, timeout time.Duration) (*PostgresProber, error) {
	dsn := BuildDSN(db)
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParams, security.MaskDSN(dsn), err)
	}
	connCfg.ConnectTimeout = timeout

	return &PostgresProber{
		connCfg: connCfg,
		timeout: timeout,
		dsn:     dsn,
		connect: realConnect,
	}, nil
}

func realConnect(ctx context.Context, cfg *pgx.ConnConfig) (dbPinger, error) {
	return pgx.ConnectConfig(ctx, cfg)
}

// Probe connects, pings and disconnects. Refused connections and
// authentication failures are both reported as plain errors: the server may
// still be starting or the role may not exist yet.
func (p *PostgresProber) Probe(ctx context.Context) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	conn, err := p.connect(ctx, p.connCfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer p.closeConn(ctx, conn)

	if err := conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// closeConn sends the terminate message on a context detached from the
// caller's cancellation but still bounded by the probe timeout.
func (p *PostgresProber) closeConn(ctx context.Context, conn dbPinger) {
	closeCtx := context.WithoutCancel(ctx)
	if p.timeout > 0 {
		var cancel context.CancelFunc
		closeCtx, cancel = context.WithTimeout(closeCtx, p.timeout)
		defer cancel()
	}
	_ = conn.Close(closeCtx)
}

// Target returns the masked DSN, for logging.
func (p *PostgresProber) Target() string {
	return security.MaskDSN(p.dsn)
}

// BuildDSN assembles a postgres:// URL from connection parameters.
func BuildDSN(db config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:   "/" + db.Name,
	}
	if db.Password != "" {
		u.User = url.UserPassword(db.User, db.Password)
	} else if db.User != "" {
		u.User = url.User(db.User)
	}
	if db.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {db.SSLMode}}.Encode()
	}
	return u.String()
}
