package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventhub-app/eventhub-api/internal/domain"
	"github.com/eventhub-app/eventhub-api/internal/repository"
)

var (
	ErrAdminNotFound = repository.ErrAdminNotFound
	ErrWrongPassword = errors.New("wrong password")
)

// passwordPolicyPattern requires at least 8 characters with a letter and a
// digit. Lookaheads need regexp2; the stdlib engine rejects them.
const passwordPolicyPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`

type AdminRepository interface {
	Create(ctx context.Context, admin domain.Admin) (domain.Admin, error)
	FindByUsername(ctx context.Context, username string) (domain.Admin, error)
	Count(ctx context.Context) (int64, error)
}

type AuthService struct {
	repo           AdminRepository
	passwordPolicy *regexp2.Regexp
}

func NewAuthService(repo AdminRepository) *AuthService {
	return &AuthService{
		repo:           repo,
		passwordPolicy: regexp2.MustCompile(passwordPolicyPattern, regexp2.None),
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (domain.Admin, error) {
	admin, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return domain.Admin{}, ErrAdminNotFound
		}

		return domain.Admin{}, fmt.Errorf("s.repo.FindByUsername -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		return domain.Admin{}, ErrWrongPassword
	}

	return admin, nil
}

// EnsureDefaultAdmin provisions the configured admin account once at
// startup. It is idempotent: if any admin row already exists it does
// nothing, so restarting never duplicates or resets accounts.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context, username, email, password string) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("s.repo.Count -> %w", err)
	}
	if count > 0 {
		return nil
	}

	if ok, _ := s.passwordPolicy.MatchString(password); !ok {
		zap.L().Warn("default admin password does not meet the policy (8+ chars, a letter and a digit); change it",
			zap.String("username", username))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	_, err = s.repo.Create(ctx, domain.Admin{
		Username: username,
		Email:    email,
		Password: string(hash),
	})
	if err != nil {
		// A concurrent replica may have provisioned first; that is fine.
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil
		}

		return fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("default admin account created", zap.String("username", username))

	return nil
}
