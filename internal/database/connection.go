package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kadirbelkuyu/tabledef/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

const pingTimeout = 10 * time.Second

type Connection struct {
	DB     *sql.DB
	Config *config.Config
}

func NewConnection(ctx context.Context, cfg *config.Config) (*Connection, error) {
	if cfg.Database.Type != "postgres" {
		return nil, fmt.Errorf("unsupported database type for SQL connection: %s", cfg.Database.Type)
	}

	db, err := sql.Open(cfg.Database.Driver, cfg.GetConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return &Connection{
		DB:     db,
		Config: cfg,
	}, nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}
