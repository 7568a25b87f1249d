package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Satheshwaran26/rentr/internal/auth"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/mapper"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong password
var ErrInvalidCredentials = domain.NewError(domain.KindUnauthorized, "Invalid email or password")

// AuthService issues session tokens for the mock user accounts
type AuthService struct {
	store  *repository.Store
	tokens *auth.TokenManager
	now    func() time.Time
	logger *zap.Logger
}

func NewAuthService(store *repository.Store, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, now: time.Now, logger: logger}
}

// Login checks the password and returns a signed session token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	users := s.store.Repos().Users
	user, err := users.GetByEmail(ctx, req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	if err := users.TouchLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: mapper.FormatTime(expiresAt),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// Me returns the account behind the current session
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Repos().Users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, "User", actor.ID)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}
