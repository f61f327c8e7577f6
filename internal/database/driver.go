package database

import (
	"context"
	"fmt"

	"olist-benchmark/internal/config"
)

// Conn is a single, unshared database connection owned by one worker.
type Conn interface {
	// Query runs query, reads every row it returns and reports how many
	// rows were read.
	Query(ctx context.Context, query string) (int, error)
	Close(ctx context.Context) error
}

// DatabaseDriver opens independent connections. Implementations must be
// safe to call from many goroutines at once.
type DatabaseDriver interface {
	Name() string
	Connect(ctx context.Context) (Conn, error)
}

func NewDriver(cfg config.Database) (DatabaseDriver, error) {
	switch cfg.Driver {
	case "postgres":
		return &PostgresDriver{dsn: PostgresDSN(cfg)}, nil
	case "mysql":
		return &MySQLDriver{dsn: MySQLDSN(cfg)}, nil
	case "mongo":
		return &MongoDriver{uri: MongoURI(cfg), database: cfg.Name}, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Driver)
	}
}
