// Package bunstore implements the admin and user stores on the bun ORM.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/geocoder89/adminpanel/internal/observability"
	"github.com/uptrace/bun"
)

type Store struct {
	db   *bun.DB
	prom *observability.Prom
}

func NewStore(db *bun.DB, prom *observability.Prom) *Store {
	return &Store{db: db, prom: prom}
}

// CreateSchema creates the admins and users tables when missing.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, model := range []interface{}{(*adminModel)(nil), (*userModel)(nil)} {
		_, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateAdmin(ctx context.Context, email, passwordHash string) (admin.Admin, error) {
	m := adminModel{Email: email, PasswordHash: passwordHash}

	err := s.prom.ObserveDB("admins.create", func() error {
		_, err := s.db.NewInsert().Model(&m).Exec(ctx)
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return admin.Admin{}, admin.ErrEmailTaken
		}
		return admin.Admin{}, err
	}

	return m.toDomain(), nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	var m adminModel

	err := s.prom.ObserveDB("admins.get_by_email", func() error {
		return s.db.NewSelect().Model(&m).Where("email = ?", email).Limit(1).Scan(ctx)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, err
	}

	return m.toDomain(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	var models []userModel

	err := s.prom.ObserveDB("users.list", func() error {
		return s.db.NewSelect().Model(&models).Order("id ASC").Scan(ctx)
	})

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	out := make([]user.User, 0, len(models))
	for _, m := range models {
		out = append(out, m.toDomain())
	}

	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	var m userModel

	err := s.prom.ObserveDB("users.get", func() error {
		return s.db.NewSelect().Model(&m).Where("id = ?", id).Scan(ctx)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return m.toDomain(), nil
}

func (s *Store) CreateUser(ctx context.Context, in user.Input) (user.User, error) {
	m := userModel{Name: in.Name, Email: in.Email}

	err := s.prom.ObserveDB("users.create", func() error {
		_, err := s.db.NewInsert().Model(&m).Exec(ctx)
		return err
	})

	if err != nil {
		return user.User{}, err
	}

	return m.toDomain(), nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, in user.Input) (user.User, error) {
	m := userModel{ID: id, Name: in.Name, Email: in.Email}

	err := s.prom.ObserveDB("users.update", func() error {
		res, err := s.db.NewUpdate().Model(&m).Column("name", "email").WherePK().Exec(ctx)
		if err != nil {
			return err
		}

		return requireRow(res)
	})

	if err != nil {
		return user.User{}, err
	}

	return m.toDomain(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	return s.prom.ObserveDB("users.delete", func() error {
		res, err := s.db.NewDelete().Model((*userModel)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}

		return requireRow(res)
	})
}

func (s *Store) DeleteAllUsers(ctx context.Context) (int64, error) {
	var n int64

	err := s.prom.ObserveDB("users.delete_all", func() error {
		res, err := s.db.NewDelete().Model((*userModel)(nil)).Where("1 = 1").Exec(ctx)
		if err != nil {
			return err
		}

		n, err = res.RowsAffected()
		return err
	})

	return n, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return user.ErrNotFound
	}

	return nil
}

// Both sqlite drivers behind sqliteshim report "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToUpper(err.Error()), "UNIQUE CONSTRAINT")
}
