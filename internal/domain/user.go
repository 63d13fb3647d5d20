package domain

import (
	"strings"
	"time"
)

type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Age            int       `json:"age"`
	FavoriteGenres string    `json:"favorite_genres"`
	IsNewUser      bool      `json:"is_new_user"`
	CreatedAt      time.Time `json:"created_at"`
}

// Genres splits FavoriteGenres on commas or pipes, keeping the stored order
// and dropping blanks and case-insensitive repeats.
func (u *User) Genres() []string {
	return SplitGenres(u.FavoriteGenres)
}

func SplitGenres(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' })
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}
