package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/snarelabs/decoy/internal/intent"
)

// Postgres persists sessions in a single table. Per-session
// serialization comes from a row lock taken inside the mutation
// transaction, so the turn counter stays monotone even across replicas.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

const sessionsSchema = `
CREATE TABLE IF NOT EXISTS decoy_sessions (
	session_id  text PRIMARY KEY,
	persona     text NOT NULL,
	turn_count  int NOT NULL DEFAULT 0,
	stage       text NOT NULL,
	last_intent text NOT NULL DEFAULT '',
	suspect     boolean NOT NULL DEFAULT false,
	intel       jsonb NOT NULL,
	created_at  timestamptz NOT NULL DEFAULT now(),
	updated_at  timestamptz NOT NULL DEFAULT now()
)`

// EnsureSchema creates the sessions table if it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, sessionsSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Mutate(ctx context.Context, sessionID string, fn func(*Record)) (*Record, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Create the row for a first-seen session, then take the row lock.
	// The conflict clause keeps concurrent first turns from racing.
	fresh := NewRecord(sessionID, time.Now().UTC())
	freshIntel, err := json.Marshal(fresh.Intel)
	if err != nil {
		return nil, fmt.Errorf("marshal intel: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO decoy_sessions (session_id, persona, turn_count, stage, last_intent, suspect, intel)
		VALUES ($1, $2, 0, $3, '', false, $4)
		ON CONFLICT (session_id) DO NOTHING`,
		sessionID, string(fresh.Persona), string(fresh.Stage), freshIntel,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	rec, err := scanSession(tx.QueryRow(ctx, selectSession+` FOR UPDATE`, sessionID))
	if err != nil {
		return nil, err
	}

	fn(rec)
	rec.UpdatedAt = time.Now().UTC()

	intelJSON, err := json.Marshal(rec.Intel)
	if err != nil {
		return nil, fmt.Errorf("marshal intel: %w", err)
	}
	_, err = tx.Exec(ctx, `
		UPDATE decoy_sessions
		SET turn_count = $2, stage = $3, last_intent = $4, suspect = $5, intel = $6, updated_at = $7
		WHERE session_id = $1`,
		sessionID, rec.TurnCount, string(rec.Stage), string(rec.LastIntent), rec.SuspectIntent, intelJSON, rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func (p *Postgres) Get(ctx context.Context, sessionID string) (*Record, error) {
	rec, err := scanSession(p.pool.QueryRow(ctx, selectSession, sessionID))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}

const selectSession = `
	SELECT session_id, persona, turn_count, stage, last_intent, suspect, intel, created_at, updated_at
	FROM decoy_sessions
	WHERE session_id = $1`

func scanSession(row pgx.Row) (*Record, error) {
	var (
		rec        Record
		persona    string
		stage      string
		lastIntent string
		intelJSON  []byte
	)
	err := row.Scan(&rec.SessionID, &persona, &rec.TurnCount, &stage, &lastIntent,
		&rec.SuspectIntent, &intelJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	rec.Persona = Persona(persona)
	rec.Stage = Stage(stage)
	rec.LastIntent = intent.Intent(lastIntent)
	if err := json.Unmarshal(intelJSON, &rec.Intel); err != nil {
		return nil, fmt.Errorf("unmarshal intel: %w", err)
	}
	return &rec, nil
}
