// Package session registers administrators, exchanges credentials for
// bearer tokens and verifies those tokens.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/adminpanel/internal/auth"
	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/geocoder89/adminpanel/internal/security"
)

var (
	ErrConflict     = errors.New("email already exists")
	ErrNotFound     = errors.New("admin not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// CredentialStore persists administrators. CreateAdmin must return
// admin.ErrEmailTaken on a duplicate email and GetAdminByEmail must return
// admin.ErrNotFound for an unknown one.
type CredentialStore interface {
	CreateAdmin(ctx context.Context, email, passwordHash string) (admin.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (admin.Admin, error)
}

type Issuer struct {
	store  CredentialStore
	tokens *auth.Manager
}

func NewIssuer(store CredentialStore, tokens *auth.Manager) *Issuer {
	return &Issuer{store: store, tokens: tokens}
}

func (i *Issuer) Register(ctx context.Context, email, password string) (int64, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	a, err := i.store.CreateAdmin(ctx, email, hash)
	if err != nil {
		if errors.Is(err, admin.ErrEmailTaken) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("create admin: %w", err)
	}

	return a.ID, nil
}

func (i *Issuer) Login(ctx context.Context, email, password string) (string, error) {
	a, err := i.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, admin.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("lookup admin: %w", err)
	}

	err = security.CheckPassword(a.PasswordHash, password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return "", ErrUnauthorized
		}
		return "", fmt.Errorf("check password: %w", err)
	}

	token, err := i.tokens.Issue(a.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	return token, nil
}

// Verify is stateless: a token stays valid until it expires, even after
// the client has logged out.
func (i *Issuer) Verify(token string) (int64, error) {
	claims, err := i.tokens.Verify(token)
	if err != nil {
		return 0, ErrUnauthorized
	}

	return claims.AdminID, nil
}

// EnsureAdmin registers the bootstrap administrator unless the email is
// already present.
func (i *Issuer) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	if email == "" || password == "" {
		return false, nil
	}

	_, err = i.store.GetAdminByEmail(ctx, email)
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, admin.ErrNotFound) {
		return false, err
	}

	_, err = i.Register(ctx, email, password)
	if errors.Is(err, ErrConflict) {
		return false, nil
	}

	return err == nil, err
}
