package user

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("user not found")

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Input is the create/update payload. Both fields are stored as given,
// empty strings included.
type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Matches reports whether query is a case-insensitive substring of the
// user's name or email. An empty query matches everything.
func (u User) Matches(query string) bool {
	q := strings.ToLower(query)

	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.Email), q)
}

// Filter returns the users matching query without touching the input slice.
func Filter(users []User, query string) []User {
	out := make([]User, 0, len(users))

	for _, u := range users {
		if u.Matches(query) {
			out = append(out, u)
		}
	}

	return out
}
