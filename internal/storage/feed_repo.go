package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tesso57/commit-pet/internal/pet"
)

type FeedRepo struct {
	db *sql.DB
}

func NewFeedRepo(db *sql.DB) *FeedRepo {
	return &FeedRepo{db: db}
}

// Insert appends rec and returns its id.
func (r *FeedRepo) Insert(ctx context.Context, rec FeedRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO feeds (fed_at, commit_count, exp_gained, total_exp, stage_before, stage_after, head_sha)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.FedAt.UTC(), rec.CommitCount, int(rec.ExpGained), int(rec.TotalExp), string(rec.StageBefore), string(rec.StageAfter), rec.HeadSHA.String())
	if err != nil {
		return 0, fmt.Errorf("feed insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("feed insert id: %w", err)
	}
	return id, nil
}

// ListRecent returns up to limit feeds, newest first. limit <= 0 means all.
func (r *FeedRepo) ListRecent(ctx context.Context, limit int) ([]FeedRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, fed_at, commit_count, exp_gained, total_exp, stage_before, stage_after, head_sha
		FROM feeds
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("feed list: %w", err)
	}
	defer rows.Close()

	var out []FeedRecord
	for rows.Next() {
		var (
			rec                    FeedRecord
			fedAt                  time.Time
			gained, total          int
			before, after, headSHA string
		)
		if err := rows.Scan(&rec.ID, &fedAt, &rec.CommitCount, &gained, &total, &before, &after, &headSHA); err != nil {
			return nil, fmt.Errorf("feed scan: %w", err)
		}
		rec.FedAt = fedAt.UTC()
		rec.ExpGained = pet.Exp(gained)
		rec.TotalExp = pet.Exp(total)
		rec.StageBefore = pet.Stage(before)
		rec.StageAfter = pet.Stage(after)
		rec.HeadSHA = pet.SHA(headSHA)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feed rows: %w", err)
	}
	return out, nil
}

// TotalCommits sums commit_count over the whole journal.
func (r *FeedRepo) TotalCommits(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(commit_count), 0) FROM feeds`).Scan(&total); err != nil {
		return 0, fmt.Errorf("feed total: %w", err)
	}
	return total, nil
}
