package db

import (
	"context"
	"fmt"
	"time"
)

// PruneResult reports what Prune removed.
type PruneResult struct {
	Deleted  int64
	Duration time.Duration
}

// Prune deletes renders created before cutoff and vacuums the file.
//
// Example:
//
//	result, err := database.Prune(ctx, time.Now().AddDate(0, 0, -30))
func (d *Database) Prune(ctx context.Context, cutoff time.Time) (PruneResult, error) {
	start := time.Now()
	var result PruneResult

	conn, err := d.conn()
	if err != nil {
		return result, err
	}

	res, err := conn.ExecContext(ctx,
		`DELETE FROM renders WHERE created_at < ?`,
		cutoff.UTC().Format(timeLayout),
	)
	if err != nil {
		return result, fmt.Errorf("failed to delete old renders: %w", err)
	}
	result.Deleted, err = res.RowsAffected()
	if err != nil {
		return result, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if result.Deleted > 0 {
		if _, err := conn.ExecContext(ctx, "VACUUM"); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("prune succeeded but VACUUM failed: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
