package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"
)

const (
	DispatchOutcomeDelivered  = "delivered"
	DispatchOutcomeFailed     = "failed"
	DispatchOutcomeSuppressed = "suppressed"
)

// AlertDispatch records one notification gate decision.
type AlertDispatch struct {
	ID        string      `db:"id" json:"id"`
	AlertType string      `db:"alert_type" json:"alert_type"`
	Message   string      `db:"message" json:"message"`
	Outcome   string      `db:"outcome" json:"outcome"`
	Detail    null.String `db:"detail" json:"detail,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}

// Dataset is the in-memory observability store backing the status server.
// Nothing in it survives a restart.
type Dataset struct {
	db *sql.DB
}

func NewDataset(db *sql.DB) *Dataset {
	return &Dataset{db: db}
}

// Migrate creates the dataset schema.
func Migrate(db *sql.DB, ctx context.Context) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("getting db connection: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS observation (
			status INTEGER,
			upstream_status VARCHAR,
			pool VARCHAR,
			"release" VARCHAR,
			is_error BOOLEAN,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating observation table: %w", err)
	}

	_, err = conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS alert_dispatch (
			id VARCHAR PRIMARY KEY,
			alert_type VARCHAR,
			message VARCHAR,
			outcome VARCHAR,
			detail VARCHAR,
			created_at TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating alert_dispatch table: %w", err)
	}

	return nil
}

func (d *Dataset) InsertObservation(ctx context.Context, entry LogEntry, isError bool) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("getting db connection: %w", err)
	}
	defer conn.Close()

	var status null.Int
	if code, ok := firstStatus(entry["status"]); ok {
		status = null.IntFrom(int64(code))
	}
	var upstreamStatus null.String
	if code, ok := firstStatus(entry["upstream_status"]); ok {
		upstreamStatus = null.StringFrom(fmt.Sprintf("%d", code))
	}
	var pool null.String
	if p := entry.Pool(); p != "" {
		pool = null.StringFrom(p)
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO observation (status, upstream_status, pool, "release", is_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, status, upstreamStatus, pool, entry.Release(), isError, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting observation: %w", err)
	}

	return nil
}

func (d *Dataset) InsertDispatch(ctx context.Context, event AlertEvent, outcome string, detail null.String) error {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("getting db connection: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		INSERT INTO alert_dispatch (id, alert_type, message, outcome, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), event.Type, event.Message, outcome, detail, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting alert dispatch: %w", err)
	}

	return nil
}

// ObservationStats returns the total and error observation counts since the
// given time.
func (d *Dataset) ObservationStats(ctx context.Context, since time.Time) (total int64, errorCount int64, err error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("getting db connection: %w", err)
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(CAST(SUM(CASE WHEN is_error THEN 1 ELSE 0 END) AS BIGINT), 0)
		FROM observation
		WHERE created_at >= ?
	`, since)
	if err := row.Scan(&total, &errorCount); err != nil {
		return 0, 0, fmt.Errorf("scanning observation stats: %w", err)
	}

	return total, errorCount, nil
}

// CurrentPool returns the pool of the most recent qualifying (status 200,
// pool-attributed) observation.
func (d *Dataset) CurrentPool(ctx context.Context) (null.String, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return null.String{}, fmt.Errorf("getting db connection: %w", err)
	}
	defer conn.Close()

	var pool null.String
	row := conn.QueryRowContext(ctx, `
		SELECT pool
		FROM observation
		WHERE status = 200 AND pool IS NOT NULL
		ORDER BY created_at DESC
		LIMIT 1
	`)
	if err := row.Scan(&pool); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return null.String{}, nil
		}
		return null.String{}, fmt.Errorf("scanning current pool: %w", err)
	}

	return pool, nil
}

func (d *Dataset) RecentDispatches(ctx context.Context, limit int) ([]AlertDispatch, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting db connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
		SELECT id, alert_type, message, outcome, detail, created_at
		FROM alert_dispatch
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying alert dispatches: %w", err)
	}
	defer rows.Close()

	var results []AlertDispatch
	for rows.Next() {
		var dispatch AlertDispatch
		if err := rows.Scan(&dispatch.ID, &dispatch.AlertType, &dispatch.Message, &dispatch.Outcome, &dispatch.Detail, &dispatch.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning alert dispatch: %w", err)
		}
		results = append(results, dispatch)
	}

	return results, nil
}
