package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS feeds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			fed_at DATETIME NOT NULL,
			commit_count INTEGER NOT NULL,
			exp_gained INTEGER NOT NULL,
			total_exp INTEGER NOT NULL,
			stage_before TEXT NOT NULL,
			stage_after TEXT NOT NULL,
			head_sha TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_feeds_fed_at ON feeds(fed_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
