package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0)

	err := s.prom.ObserveDB("users.list", func() error {
		rows, err := s.pool.Query(ctx, `SELECT id, name, email FROM users ORDER BY id ASC`)
		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var u user.User

			if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := s.prom.ObserveDB("users.get", func() error {
		return s.pool.QueryRow(ctx,
			`SELECT id, name, email FROM users WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Name, &u.Email)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, in user.Input) (user.User, error) {
	u := user.User{Name: in.Name, Email: in.Email}

	err := s.prom.ObserveDB("users.create", func() error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
			in.Name, in.Email,
		).Scan(&u.ID)
	})

	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, in user.Input) (user.User, error) {
	var u user.User

	err := s.prom.ObserveDB("users.update", func() error {
		return s.pool.QueryRow(ctx,
			`UPDATE users
			SET name = $2,
				email = $3
			WHERE id = $1
			RETURNING id, name, email`,
			id, in.Name, in.Email,
		).Scan(&u.ID, &u.Name, &u.Email)
	})

	if err != nil {
		// no row matched the id
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.prom.ObserveDB("users.delete", func() error {
		tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		return nil
	})
}

func (s *Store) DeleteAllUsers(ctx context.Context) (int64, error) {
	var n int64

	err := s.prom.ObserveDB("users.delete_all", func() error {
		tag, err := s.pool.Exec(ctx, `DELETE FROM users`)
		if err != nil {
			return err
		}

		n = tag.RowsAffected()
		return nil
	})

	return n, err
}
