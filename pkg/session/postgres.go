package session

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the goose migrations that create the sessions table.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// PostgresStore keeps sessions in the sessions table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store. Run [Migrations] before first use.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const selectSession = `SELECT id, token, user_id, data, ip, user_agent, created_at, last_active_at, expires_at
FROM sessions WHERE token = $1`

func (p *PostgresStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", s.ID, err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO sessions (id, token, user_id, data, ip, user_agent, created_at, last_active_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Token, s.UserID, data, s.IP, s.UserAgent, s.CreatedAt, s.LastActiveAt, s.ExpiresAt,
	)
	return err
}

func (p *PostgresStore) Get(ctx context.Context, token string) (*Session, error) {
	var (
		s    Session
		data []byte
	)
	err := p.pool.QueryRow(ctx, selectSession, token).Scan(
		&s.ID, &s.Token, &s.UserID, &data, &s.IP, &s.UserAgent, &s.CreatedAt, &s.LastActiveAt, &s.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.IsExpired() {
		_ = p.Delete(ctx, s.ID)
		return nil, ErrExpired
	}

	if err := json.Unmarshal(data, &s.Values); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", s.ID, err)
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	return &s, nil
}

func (p *PostgresStore) Update(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", s.ID, err)
	}
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET token = $2, user_id = $3, data = $4, ip = $5, user_agent = $6,
		 last_active_at = $7, expires_at = $8 WHERE id = $1`,
		s.ID, s.Token, s.UserID, data, s.IP, s.UserAgent, s.LastActiveAt, s.ExpiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (p *PostgresStore) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

func (p *PostgresStore) Touch(ctx context.Context, id string, lastActiveAt, expiresAt time.Time) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE sessions SET last_active_at = $2, expires_at = $3 WHERE id = $1`,
		id, lastActiveAt, expiresAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired before now.
func (p *PostgresStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ Store = (*PostgresStore)(nil)
