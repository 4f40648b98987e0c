package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Session - серверная сессия браузера. Токен бэкенда никогда не уходит в браузер.
type Session struct {
	ID          string
	AccessToken string
	User        User
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
