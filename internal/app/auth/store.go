package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Trainer struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

// Store persists trainer accounts. Create returns ErrEmailInUse for a taken
// address and FindByEmail returns ErrInvalidCredentials for an unknown one.
type Store interface {
	Create(ctx context.Context, t Trainer) error
	FindByEmail(ctx context.Context, email string) (Trainer, error)
}

type pgStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

func (p *pgStore) Create(ctx context.Context, t Trainer) error {
	_, err := p.db.Exec(ctx, `
INSERT INTO trainers (id, email, password_hash)
VALUES ($1, $2, $3)
`, t.ID, t.Email, t.PasswordHash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailInUse
		}
		return fmt.Errorf("insert trainer: %w", err)
	}
	return nil
}

func (p *pgStore) FindByEmail(ctx context.Context, email string) (Trainer, error) {
	t := Trainer{Email: email}
	err := p.db.QueryRow(ctx, `SELECT id, password_hash FROM trainers WHERE email = $1`, email).
		Scan(&t.ID, &t.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Trainer{}, ErrInvalidCredentials
		}
		return Trainer{}, fmt.Errorf("query trainer: %w", err)
	}
	return t, nil
}
