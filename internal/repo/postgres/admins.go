package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func (s *Store) CreateAdmin(ctx context.Context, email, passwordHash string) (admin.Admin, error) {
	a := admin.Admin{Email: email, PasswordHash: passwordHash}

	err := s.prom.ObserveDB("admins.create", func() error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO admins (email, password_hash)
			VALUES ($1, $2)
			RETURNING id`,
			email, passwordHash,
		).Scan(&a.ID)
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return admin.Admin{}, admin.ErrEmailTaken
		}

		return admin.Admin{}, err
	}

	return a, nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	var a admin.Admin

	err := s.prom.ObserveDB("admins.get_by_email", func() error {
		return s.pool.QueryRow(ctx,
			`SELECT id, email, password_hash
			FROM admins
			WHERE email = $1`,
			email,
		).Scan(&a.ID, &a.Email, &a.PasswordHash)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return admin.Admin{}, admin.ErrNotFound
		}

		return admin.Admin{}, err
	}

	return a, nil
}
