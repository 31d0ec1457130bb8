package repo_test

import (
	"context"
	"testing"

	"github.com/geocoder89/adminpanel/internal/config"
	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/geocoder89/adminpanel/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryAndSQLite(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []config.Config{
		{DBDriver: config.DriverMemory},
		{DBDriver: config.DriverSQLite, SQLiteDSN: ":memory:"},
	} {
		cfg := cfg

		t.Run(cfg.DBDriver, func(t *testing.T) {
			s, err := repo.Open(ctx, cfg, nil)
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Ping(ctx))

			u, err := s.CreateUser(ctx, user.Input{Name: "Ann", Email: "a@x.com"})
			require.NoError(t, err)

			list, err := s.ListUsers(ctx)
			require.NoError(t, err)
			assert.Equal(t, []user.User{u}, list)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := repo.Open(context.Background(), config.Config{DBDriver: "mongo"}, nil)
	assert.Error(t, err)
}
