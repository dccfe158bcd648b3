package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/prakashdas-pd/apexbridge-leads/internal/entity"
)

// SessionTTL bounds how long an admin session lives server-side.
const SessionTTL = 24 * time.Hour

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginOutput struct {
	Token       string    `json:"token"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	LoggedInAt  time.Time `json:"logged_in_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type LoginUseCase struct {
	Accounts entity.AccountRepositoryInterface
	Sessions entity.SessionStoreInterface
	Tokens   TokenIssuer
}

func NewLoginUseCase(
	accounts entity.AccountRepositoryInterface,
	sessions entity.SessionStoreInterface,
	tokens TokenIssuer,
) *LoginUseCase {
	return &LoginUseCase{
		Accounts: accounts,
		Sessions: sessions,
		Tokens:   tokens,
	}
}

// Execute checks credentials and issues a session. Unknown user and
// wrong password both come back as ErrInvalidCredentials so the
// response cannot be used to enumerate accounts.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if errs := ValidateLoginInput(input.Username, input.Password); len(errs) > 0 {
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: joinValidationErrors(errs),
		}
	}

	account, err := uc.Accounts.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, entity.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "failed to load account: " + err.Error()}
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	session := &entity.AdminSession{
		ID:          uuid.New().String(),
		AccountID:   account.ID,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Role:        account.Role,
		LoggedInAt:  now,
		ExpiresAt:   now.Add(SessionTTL),
	}

	if err := uc.Sessions.Save(ctx, session, SessionTTL); err != nil {
		return nil, &TechnicalError{Code: "SESSION_ERROR", Message: "failed to store session: " + err.Error()}
	}

	token, err := uc.Tokens.Issue(session)
	if err != nil {
		return nil, &TechnicalError{Code: "TOKEN_ERROR", Message: "failed to sign token: " + err.Error()}
	}

	if err := uc.Accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		// Cosmetic timestamp; the login itself already succeeded.
		log.Printf("⚠️ failed to stamp last login for %s: %v", account.Username, err)
	}

	return &LoginOutput{
		Token:       token,
		Username:    account.Username,
		DisplayName: account.DisplayName,
		Role:        account.Role,
		LoggedInAt:  now,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// Logout revokes the server-side session record, killing every copy of
// the token at once.
func (uc *LoginUseCase) Logout(ctx context.Context, sessionID string) error {
	if err := uc.Sessions.Revoke(ctx, sessionID); err != nil {
		return &TechnicalError{Code: "SESSION_ERROR", Message: "failed to revoke session: " + err.Error()}
	}
	return nil
}
