// Package repo selects the storage backend named by DB_DRIVER.
package repo

import (
	"context"
	"fmt"

	"github.com/geocoder89/adminpanel/internal/config"
	"github.com/geocoder89/adminpanel/internal/db"
	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/geocoder89/adminpanel/internal/observability"
	"github.com/geocoder89/adminpanel/internal/repo/bunstore"
	"github.com/geocoder89/adminpanel/internal/repo/memory"
	"github.com/geocoder89/adminpanel/internal/repo/postgres"
)

// Store is the full persistence surface: the credential store, the user
// repository and lifecycle hooks.
type Store interface {
	CreateAdmin(ctx context.Context, email, passwordHash string) (admin.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error)

	ListUsers(ctx context.Context) ([]user.User, error)
	GetUser(ctx context.Context, id int64) (user.User, error)
	CreateUser(ctx context.Context, in user.Input) (user.User, error)
	UpdateUser(ctx context.Context, id int64, in user.Input) (user.User, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteAllUsers(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*postgres.Store)(nil)
	_ Store = (*bunstore.Store)(nil)
)

// Open connects to the configured backend and brings its schema up to date.
func Open(ctx context.Context, cfg config.Config, prom *observability.Prom) (Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		return postgres.NewStore(pool, prom), nil

	case config.DriverSQLite:
		bunDB, err := db.OpenSQLite(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}

		s := bunstore.NewStore(bunDB, prom)
		if err := s.CreateSchema(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}

		return s, nil

	case config.DriverMemory:
		return memory.NewStore(), nil
	}

	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}
