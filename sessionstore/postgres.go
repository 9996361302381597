package sessionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres wraps an existing pool. The mvc_sessions table must exist, see
// MigratePostgres.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Load(ctx context.Context, id string) (map[string]string, error) {
	data := make(map[string]string)

	err := p.db.QueryRow(ctx, `SELECT data FROM mvc_sessions WHERE id=$1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return make(map[string]string), nil
	} else if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	return data, nil
}

func (p *Postgres) Save(ctx context.Context, id string, data map[string]string) error {
	q := `INSERT INTO mvc_sessions (id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data=$2, updated_at=now()`

	if _, err := p.db.Exec(ctx, q, id, data); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM mvc_sessions WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
