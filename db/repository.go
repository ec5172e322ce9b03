package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is fixed-width so created_at sorts and compares as text.
const timeLayout = "2006-01-02 15:04:05.000000"

// DefaultQueryLimit is used when a non-positive limit is requested.
const DefaultQueryLimit = 10

// ErrMissingHash is returned when inserting a record without a hash.
var ErrMissingHash = errors.New("db: render record has no hash")

// RenderRecord is one row of the renders table.
type RenderRecord struct {
	ID         string
	Hash       string
	Format     string
	Width      int
	Height     int
	Fit        string
	ShapeCount int
	OutputPath string
	DurationMS int64
	CreatedAt  time.Time
}

// Repository reads and writes render history.
type Repository struct {
	db          *Database
	asyncWriter *AsyncWriter
}

// NewRepository returns a Repository that writes synchronously.
func NewRepository(db *Database) *Repository {
	return &Repository{db: db}
}

// WithAsyncWriter returns a copy of r that queues inserts on w while w is
// running, falling back to synchronous writes when the queue is full.
func (r *Repository) WithAsyncWriter(w *AsyncWriter) *Repository {
	return &Repository{db: r.db, asyncWriter: w}
}

// InsertRender stores rec and returns its ID. An empty ID is filled with a
// new UUID and a zero CreatedAt with the current time.
func (r *Repository) InsertRender(ctx context.Context, rec RenderRecord) (string, error) {
	if rec.Hash == "" {
		return "", ErrMissingHash
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		if r.asyncWriter.Write(rec) {
			return rec.ID, nil
		}
	}

	if err := r.insert(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// WriteHandler returns the function an AsyncWriter uses to persist records.
func (r *Repository) WriteHandler() WriteHandler {
	return func(rec RenderRecord) error {
		return r.insert(context.Background(), rec)
	}
}

func (r *Repository) insert(ctx context.Context, rec RenderRecord) error {
	conn, err := r.db.conn()
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO renders (
			id, hash, format, width, height, fit,
			shape_count, output_path, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Hash, rec.Format, rec.Width, rec.Height, rec.Fit,
		rec.ShapeCount, nullString(rec.OutputPath), rec.DurationMS,
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert render %s: %w", rec.ID, err)
	}
	return nil
}

const selectRenders = `
	SELECT id, hash, format, width, height, fit,
		   shape_count, COALESCE(output_path, ''), duration_ms, created_at
	FROM renders`

// QueryRecent returns up to limit records, newest first.
func (r *Repository) QueryRecent(ctx context.Context, limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	return r.query(ctx, selectRenders+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

// FindByHash returns every render of hash, newest first.
func (r *Repository) FindByHash(ctx context.Context, hash string) ([]RenderRecord, error) {
	return r.query(ctx, selectRenders+` WHERE hash = ? ORDER BY created_at DESC, rowid DESC`, hash)
}

// CountRenders returns the number of stored renders.
func (r *Repository) CountRenders(ctx context.Context) (int64, error) {
	conn, err := r.db.conn()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM renders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count renders: %w", err)
	}
	return count, nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]RenderRecord, error) {
	conn, err := r.db.conn()
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query renders: %w", err)
	}
	defer rows.Close()

	var records []RenderRecord
	for rows.Next() {
		rec, err := scanRender(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating renders: %w", err)
	}
	return records, nil
}

func scanRender(rows *sql.Rows) (RenderRecord, error) {
	var rec RenderRecord
	var createdAt string

	err := rows.Scan(
		&rec.ID,
		&rec.Hash,
		&rec.Format,
		&rec.Width,
		&rec.Height,
		&rec.Fit,
		&rec.ShapeCount,
		&rec.OutputPath,
		&rec.DurationMS,
		&createdAt,
	)
	if err != nil {
		return rec, fmt.Errorf("failed to scan render: %w", err)
	}

	rec.CreatedAt, err = time.ParseInLocation(timeLayout, createdAt, time.UTC)
	if err != nil {
		return rec, fmt.Errorf("render %s has malformed created_at %q: %w", rec.ID, createdAt, err)
	}
	return rec, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
