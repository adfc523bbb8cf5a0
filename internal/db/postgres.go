package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Connect opens a pgx-backed database handle. It does not verify the
// connection; use WaitUntilReady for that.
func Connect(databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// WaitUntilReady blocks until the database answers a ping, retrying at the
// given interval with no backoff and no attempt cap. A failed attempt is
// logged and treated as "not ready yet". Cancelling the context is the only
// way out before the database comes up.
func WaitUntilReady(ctx context.Context, db *sql.DB, interval time.Duration) error {
	for {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}

		log.Printf("database not ready: %v", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
