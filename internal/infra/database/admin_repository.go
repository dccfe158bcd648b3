package database

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (*entity.AdminAccount, error) {
	query := `
		SELECT id, username, password_hash, display_name, role, last_login_at, created_at
		FROM admin_accounts WHERE username = $1
	`

	var acc entity.AdminAccount
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, username).Scan(
		&acc.ID, &acc.Username, &acc.PasswordHash, &acc.DisplayName, &acc.Role,
		&lastLogin, &acc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrAccountNotFound
		}
		return nil, err
	}
	if lastLogin.Valid {
		acc.LastLoginAt = &lastLogin.Time
	}

	return &acc, nil
}

func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE admin_accounts SET last_login_at = $1 WHERE id = $2`, at, id)
	return err
}

// defaultAccounts seeds the back-office accounts on an empty table.
// Passwords are bcrypt-hashed on the way in; set them via the
// ADMIN_PASSWORD/MANAGER_PASSWORD/SUPPORT_PASSWORD env vars.
var defaultAccounts = []struct {
	Username    string
	DisplayName string
	Role        string
}{
	{"admin", "Administrator", entity.RoleSuperAdmin},
	{"manager", "Sales Manager", entity.RoleAdmin},
	{"support", "Support Desk", entity.RoleModerator},
}

func (r *AdminRepository) SeedDefaults(ctx context.Context, passwords map[string]string) error {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_accounts`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, acc := range defaultAccounts {
		pass, ok := passwords[acc.Username]
		if !ok || pass == "" {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		_, err = r.DB.ExecContext(ctx, `
			INSERT INTO admin_accounts (id, username, password_hash, display_name, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (username) DO NOTHING
		`, uuid.New().String(), acc.Username, string(hash), acc.DisplayName, acc.Role, time.Now())
		if err != nil {
			return err
		}

		log.Printf("👤 seeded admin account '%s' (%s)", acc.Username, acc.Role)
	}

	return nil
}
