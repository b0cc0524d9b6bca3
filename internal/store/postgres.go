package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var Schema string

type Store struct {
	pool *pgxpool.Pool
}

func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() { s.pool.Close() }

// ExecSQL executes raw SQL (used for schema bootstrap).
// Schema is written to be re-applied safely.
func (s *Store) ExecSQL(ctx context.Context, sql string) error {
	_, err := s.pool.Exec(ctx, sql)
	return err
}

func (s *Store) CreateRun(ctx context.Context, r Run) (string, error) {
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusRunning
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO bootstrap.runs (run_id, project, executor, status, actor)
		VALUES ($1,$2,$3,$4,$5)
	`, r.RunID, r.Project, r.Executor, r.Status, nullIfEmpty(r.Actor))
	if err != nil {
		return "", err
	}
	return r.RunID, nil
}

func (s *Store) FinishRun(ctx context.Context, runID string, status string, c Counts, resultJSON []byte) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE bootstrap.runs
		SET status=$2, finished_at=now(), created=$3, existing=$4, failed=$5, result=$6::jsonb
		WHERE run_id=$1
	`, runID, status, c.Created, c.Existing, c.Failed, jsonOrEmpty(resultJSON))
	return err
}

// ListRuns returns the most recent runs, newest first. An empty project
// matches every project.
func (s *Store) ListRuns(ctx context.Context, project string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT run_id::text, project, executor, status, COALESCE(actor,''), started_at, finished_at,
		       created, existing, failed, result
		FROM bootstrap.runs
		WHERE $1::text = '' OR project = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, project, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Project, &r.Executor, &r.Status, &r.Actor, &r.StartedAt, &r.FinishedAt,
			&r.Created, &r.Existing, &r.Failed, &r.ResultJSON); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func jsonOrEmpty(b []byte) string {
	if len(b) == 0 {
		return "{}"
	}
	return string(b)
}
