package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// NewPool opens a bounded pgx pool against databaseURL, retrying while
// Postgres comes up (it may not be ready yet when started via Docker).
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = 16
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				log.Printf("[DB] connected (attempt %d)", attempt)
				return pool, nil
			}
			pool.Close()
		}
		log.Printf("[DB] connect attempt %d/%d failed: %v", attempt, connectAttempts, err)
		time.Sleep(connectBackoff)
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectAttempts, err)
}
