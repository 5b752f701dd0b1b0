package store

import "log/slog"

// New builds a Store from the given options: PostgreSQL or SQLite when a DSN
// is configured, in-memory otherwise.
func New(opts ...Option) (Store, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.DSN == "" {
		slog.Debug("No database DSN configured, using in-memory store")
		return NewInMemoryStore(), nil
	}

	switch DetectDSNType(cfg.DSN) {
	case "postgres":
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store")
		return NewPostgresStore(opts...)
	default:
		slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", cfg.DSN)
		return NewSQLiteStore(opts...)
	}
}
