package entity

import (
	"context"
	"errors"
	"time"
)

var ErrAccountNotFound = errors.New("account not found")

const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleModerator  = "Moderator"
)

// AdminAccount holds a bcrypt hash, never a plaintext password.
type AdminAccount struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AdminSession is the server-side session record backing the token the
// client holds. The token alone proves nothing: the middleware checks
// that this record is still alive.
type AdminSession struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	LoggedInAt  time.Time `json:"logged_in_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AccountRepositoryInterface interface {
	FindByUsername(ctx context.Context, username string) (*AdminAccount, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

type SessionStoreInterface interface {
	Save(ctx context.Context, session *AdminSession, ttl time.Duration) error
	Find(ctx context.Context, id string) (*AdminSession, error)
	Revoke(ctx context.Context, id string) error
}
