package bunstore

import (
	"github.com/geocoder89/adminpanel/internal/domain/admin"
	"github.com/geocoder89/adminpanel/internal/domain/user"
	"github.com/uptrace/bun"
)

type adminModel struct {
	bun.BaseModel `bun:"table:admins,alias:a"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Email        string `bun:"email,notnull,unique"`
	PasswordHash string `bun:"password_hash,notnull"`
}

func (m adminModel) toDomain() admin.Admin {
	return admin.Admin{ID: m.ID, Email: m.Email, PasswordHash: m.PasswordHash}
}

type userModel struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID    int64  `bun:"id,pk,autoincrement"`
	Name  string `bun:"name,notnull"`
	Email string `bun:"email,notnull"`
}

func (m userModel) toDomain() user.User {
	return user.User{ID: m.ID, Name: m.Name, Email: m.Email}
}
