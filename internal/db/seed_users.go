package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/geocoder89/adminpanel/internal/domain/user"
)

type UserSeeder interface {
	DeleteAllUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, in user.Input) (user.User, error)
}

// SeedUsers wipes the users table and inserts n fake users with lowercased
// emails. It returns how many rows were removed first.
func SeedUsers(ctx context.Context, store UserSeeder, n int, faker *gofakeit.Faker) (removed int64, err error) {
	removed, err = store.DeleteAllUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}

	for i := 0; i < n; i++ {
		in := user.Input{
			Name:  faker.Name(),
			Email: strings.ToLower(faker.Email()),
		}

		if _, err := store.CreateUser(ctx, in); err != nil {
			return removed, fmt.Errorf("create user %d: %w", i+1, err)
		}
	}

	return removed, nil
}
