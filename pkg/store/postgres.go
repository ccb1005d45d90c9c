// Package store persists bets and resolutions in Postgres and caches
// game snapshots in Redis.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/oddslab/gradebook/pkg/grade"
)

// PendingBet is an ungraded bet together with the game it rides on.
type PendingBet struct {
	Bet    grade.Bet
	GameID string
}

// Postgres wraps the bet and resolution tables.
type Postgres struct {
	db *sql.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// PendingBets returns every bet awaiting resolution. The bet document
// is stored as JSON alongside the indexed columns.
func (p *Postgres) PendingBets(ctx context.Context) ([]PendingBet, error) {
	const query = `
		SELECT game_id, doc
		FROM bets
		WHERE status = 'pending'
		ORDER BY placed_at
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query pending bets: %w", err)
	}
	defer rows.Close()

	var out []PendingBet
	for rows.Next() {
		var (
			pb  PendingBet
			doc []byte
		)
		if err := rows.Scan(&pb.GameID, &doc); err != nil {
			return nil, fmt.Errorf("scan pending bet: %w", err)
		}
		if err := json.Unmarshal(doc, &pb.Bet); err != nil {
			return nil, fmt.Errorf("decode bet document: %w", err)
		}
		out = append(out, pb)
	}
	return out, rows.Err()
}

// SaveResolution records a resolution and marks the bet settled, in one
// transaction. Re-saving the same bet is a no-op, so a crashed pass can
// be replayed safely.
func (p *Postgres) SaveResolution(ctx context.Context, res *grade.Resolution) error {
	audit, err := json.Marshal(res.Audit)
	if err != nil {
		return fmt.Errorf("encode audit: %w", err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO resolutions
			(bet_id, sport_key, game_id, outcome, stat_window, event_time, resolved_at, audit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (bet_id) DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, insert,
		res.BetID, res.SportKey, res.GameID, string(res.Outcome),
		string(res.Window), res.EventTime, res.ResolvedAt, audit,
	); err != nil {
		return fmt.Errorf("insert resolution: %w", err)
	}

	const update = `
		UPDATE bets SET status = 'settled', settled_at = $1 WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, update, res.ResolvedAt, res.BetID); err != nil {
		return fmt.Errorf("mark bet settled: %w", err)
	}

	return tx.Commit()
}

// Resolution returns a previously stored resolution, or nil if the bet
// has not been settled.
func (p *Postgres) Resolution(ctx context.Context, betID uuid.UUID) (*grade.Resolution, error) {
	const query = `
		SELECT bet_id, sport_key, game_id, outcome, stat_window, event_time, resolved_at, audit
		FROM resolutions
		WHERE bet_id = $1
	`

	var (
		res   grade.Resolution
		audit []byte
	)
	err := p.db.QueryRowContext(ctx, query, betID).Scan(
		&res.BetID, &res.SportKey, &res.GameID, &res.Outcome,
		&res.Window, &res.EventTime, &res.ResolvedAt, &audit,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query resolution: %w", err)
	}
	if err := json.Unmarshal(audit, &res.Audit); err != nil {
		return nil, fmt.Errorf("decode audit: %w", err)
	}
	return &res, nil
}
