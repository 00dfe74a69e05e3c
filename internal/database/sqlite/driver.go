package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/koustreak/litedb/internal/errs"
	"github.com/koustreak/litedb/internal/logger"

	_ "github.com/mattn/go-sqlite3" // register "sqlite3" (cgo)
	_ "modernc.org/sqlite"          // register "sqlite" (pure Go)
)

// Driver identifies the SQLite engine binding.
type Driver string

const (
	// DriverPure is modernc.org/sqlite. It needs no cgo and is the default.
	DriverPure Driver = "sqlite"

	// DriverCGO is github.com/mattn/go-sqlite3. Binaries built with
	// CGO_ENABLED=0 fail to connect with it.
	DriverCGO Driver = "sqlite3"
)

const (
	// supportedVersion is the only DatabaseVersion the engines accept.
	supportedVersion = "3"

	defaultBusyTimeout = 5 * time.Second
)

// ParseDriver accepts the driver names used on the command line.
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(name) {
	case "", "sqlite", "pure", "modernc":
		return DriverPure, nil
	case "sqlite3", "cgo", "mattn":
		return DriverCGO, nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidInput, "unknown sqlite driver %q", name)
	}
}

type options struct {
	password          string
	persist           bool
	configurationPath string
	driver            Driver
	busyTimeout       time.Duration
	log               *logger.Logger
}

// Option customises New and NewFromConfiguration.
type Option func(*options)

// WithPassword sets the database password (explicit form only).
func WithPassword(password string) Option {
	return func(o *options) { o.password = password }
}

// WithPersist writes the configuration to disk before connecting
// (explicit form only).
func WithPersist() Option {
	return func(o *options) { o.persist = true }
}

// WithConfigurationPath sets where WithPersist writes the configuration.
// Defaults to DefaultConfigurationPath.
func WithConfigurationPath(path string) Option {
	return func(o *options) { o.configurationPath = path }
}

// WithDriver selects the engine binding. Defaults to DriverPure.
func WithDriver(d Driver) Option {
	return func(o *options) { o.driver = d }
}

// WithBusyTimeout sets how long a statement waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithLogger injects the logger used by the wrapper. Without it the
// wrapper is silent.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) *options {
	o := &options{
		driver:      DriverPure,
		busyTimeout: defaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}
	return o
}

// validate checks what the engine would reject before a handle is created.
func validate(cfg *Configuration) error {
	if cfg.DatabasePath == "" {
		return errs.New(errs.ErrKindConnectionFailed, "unable to connect to database: data source is empty")
	}
	if cfg.DatabaseVersion != "" && cfg.DatabaseVersion != supportedVersion {
		return errs.Newf(errs.ErrKindConnectionFailed,
			"unable to connect to database: only SQLite version %s is supported, got %q", supportedVersion, cfg.DatabaseVersion)
	}
	return nil
}

// dsn renders the driver-specific data source name for the descriptor.
// The password is not part of it; open applies it with PRAGMA key.
func dsn(d Driver, cfg *Configuration, busyTimeout time.Duration) (string, error) {
	if err := validate(cfg); err != nil {
		return "", err
	}

	ms := busyTimeout.Milliseconds()
	file := escapeURIPath(cfg.DatabasePath)

	switch d {
	case DriverPure:
		// https://pkg.go.dev/modernc.org/sqlite#Driver.Open
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)", file, ms), nil
	case DriverCGO:
		// https://github.com/mattn/go-sqlite3#connection-string
		return fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on", file, ms), nil
	default:
		return "", errs.Newf(errs.ErrKindInvalidInput, "unknown sqlite driver %q", string(d))
	}
}

// escapeURIPath protects the characters that would end the path part of
// a file: URI. SQLite decodes %HH escapes when it opens the file.
func escapeURIPath(p string) string {
	return strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(p)
}

// quoteLiteral renders s as a SQL string literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
