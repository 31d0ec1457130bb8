package panel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/geocoder89/adminpanel/internal/db"
	"github.com/uptrace/bun"
)

const (
	keyToken = "token"
	keyTheme = "theme"
)

// Storage is a small string key/value store that survives restarts.
// Get reports a missing key as ok=false with a nil error.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type metadataRow struct {
	bun.BaseModel `bun:"table:metadata"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// SQLiteStorage keeps panel state in a metadata(key, value) table of a
// local sqlite file.
type SQLiteStorage struct {
	db *bun.DB
}

// OpenSQLiteStorage opens (creating if needed) the sqlite file at path and
// makes sure the metadata table exists.
func OpenSQLiteStorage(ctx context.Context, path string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	// the token is a credential, keep the file private
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create state file: %w", err)
	}
	_ = f.Close()

	bunDB, err := db.OpenSQLite(ctx, "file:"+path)
	if err != nil {
		return nil, err
	}

	s := NewSQLiteStorage(bunDB)
	if err := s.CreateSchema(ctx); err != nil {
		_ = bunDB.Close()
		return nil, err
	}

	return s, nil
}

// NewSQLiteStorage wraps an already open handle. Call CreateSchema before
// first use.
func NewSQLiteStorage(bunDB *bun.DB) *SQLiteStorage {
	return &SQLiteStorage{db: bunDB}
}

func (s *SQLiteStorage) CreateSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*metadataRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create metadata table: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Get(ctx context.Context, key string) (string, bool, error) {
	row := new(metadataRow)

	err := s.db.NewSelect().
		Model(row).
		Where("key = ?", key).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get metadata[%s]: %w", key, err)
	}

	return row.Value, true, nil
}

func (s *SQLiteStorage) Set(ctx context.Context, key, value string) error {
	row := &metadataRow{Key: key, Value: value}

	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set metadata[%s]: %w", key, err)
	}
	return nil
}

// Delete is a no-op for a missing key.
func (s *SQLiteStorage) Delete(ctx context.Context, key string) error {
	_, err := s.db.NewDelete().
		Model((*metadataRow)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete metadata[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// MemoryStorage is a Storage that forgets everything on exit.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string]string{}}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
