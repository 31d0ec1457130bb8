package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/geocoder89/adminpanel/internal/repo/memory"
)

func TestUsersCRUD(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	created, err := s.CreateUser(ctx, user.Input{Name: "Ann", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Ann" || list[0].Email != "a@x.com" {
		t.Fatalf("unexpected list: %+v", list)
	}

	updated, err := s.UpdateUser(ctx, created.ID, user.Input{Name: "Anna", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Anna" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := s.DeleteUser(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetUser(ctx, created.ID); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("get after delete: got %v, want ErrNotFound", err)
	}
}

func TestUsersMissingIDs(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	if _, err := s.UpdateUser(ctx, 99, user.Input{Name: "x"}); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("update: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteUser(ctx, 99); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("delete: got %v, want ErrNotFound", err)
	}
}

func TestUsersAcceptEmptyFieldsAndDuplicateEmails(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, user.Input{}); err != nil {
		t.Fatalf("create empty: %v", err)
	}
	if _, err := s.CreateUser(ctx, user.Input{Name: "a", Email: "dup@x.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateUser(ctx, user.Input{Name: "b", Email: "dup@x.com"}); err != nil {
		t.Fatalf("create duplicate email: %v", err)
	}

	list, _ := s.ListUsers(ctx)
	if len(list) != 3 {
		t.Fatalf("got %d users, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("list not ordered by id: %+v", list)
		}
	}

	n, err := s.DeleteAllUsers(ctx)
	if err != nil || n != 3 {
		t.Fatalf("delete all: n=%d err=%v", n, err)
	}
}

func TestAdminsUniqueEmail(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	if _, err := s.CreateAdmin(ctx, "a@b.com", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateAdmin(ctx, "a@b.com", "hash"); !errors.Is(err, admin.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
	if _, err := s.GetAdminByEmail(ctx, "x@b.com"); !errors.Is(err, admin.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
