package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/geocoder89/adminpanel/internal/domain/user"
)

// Store keeps administrators and users in process memory. Ids are assigned
// from per-table counters starting at 1, like an autoincrement column.
type Store struct {
	mu sync.RWMutex

	admins      map[int64]admin.Admin
	adminEmails map[string]int64
	nextAdminID int64

	users      map[int64]user.User
	nextUserID int64
}

func NewStore() *Store {
	return &Store{
		admins:      make(map[int64]admin.Admin),
		adminEmails: make(map[string]int64),
		users:       make(map[int64]user.User),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) CreateAdmin(ctx context.Context, email, passwordHash string) (admin.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.adminEmails[email]; ok {
		return admin.Admin{}, admin.ErrEmailTaken
	}

	s.nextAdminID++
	a := admin.Admin{
		ID:           s.nextAdminID,
		Email:        email,
		PasswordHash: passwordHash,
	}

	s.admins[a.ID] = a
	s.adminEmails[email] = a.ID

	return a, nil
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.adminEmails[email]
	if !ok {
		return admin.Admin{}, admin.ErrNotFound
	}

	return s.admins[id], nil
}

func (s *Store) ListUsers(ctx context.Context) ([]user.User, error) {
	s.mu.RLock()
	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, in user.Input) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	u := user.User{ID: s.nextUserID, Name: in.Name, Email: in.Email}
	s.users[u.ID] = u

	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, in user.Input) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return user.User{}, user.ErrNotFound
	}

	u := user.User{ID: id, Name: in.Name, Email: in.Email}
	s.users[id] = u

	return u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return user.ErrNotFound
	}

	delete(s.users, id)

	return nil
}

func (s *Store) DeleteAllUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.users))
	s.users = make(map[int64]user.User)

	return n, nil
}
