package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/demand-service/internal/auth"
	"github.com/spec-kit/demand-service/internal/config"
	"github.com/spec-kit/demand-service/internal/domain"
	"github.com/spec-kit/demand-service/internal/repository"
	apperrors "github.com/spec-kit/demand-service/pkg/util/errorutil"
)

// AuthService coordinates analyst accounts and login flows.
type AuthService struct {
	analysts repository.AnalystRepository
	tokenMgr *auth.TokenManager
	hasher   auth.PasswordHasher
	logger   *zap.Logger
}

// AnalystCreateInput describes a new analyst account.
type AnalystCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.AnalystRole
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, analysts repository.AnalystRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		analysts: analysts,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		hasher:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		logger:   logger,
	}
}

// Login authenticates an analyst and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Analyst, string, time.Time, error) {
	analyst, err := s.analysts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !analyst.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("analyst inactive")
	}
	if err := s.hasher.Verify(analyst.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(*analyst)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return analyst, token, exp, nil
}

// CreateAnalyst registers a new account (ADMIN).
func (s *AuthService) CreateAnalyst(ctx context.Context, actor *domain.Analyst, input AnalystCreateInput) (*domain.Analyst, error) {
	if err := requireRole(actor); err != nil {
		return nil, err
	}
	return s.createAnalyst(ctx, input)
}

func (s *AuthService) createAnalyst(ctx context.Context, input AnalystCreateInput) (*domain.Analyst, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password are required", nil)
	}
	if input.Role == "" {
		input.Role = domain.AnalystRoleAnalista
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hash, err := s.hash(input.Password)
	if err != nil {
		return nil, err
	}
	analyst := &domain.Analyst{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.analysts.Create(ctx, analyst); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		}
		return nil, apperrors.MapError(err)
	}
	return analyst, nil
}

// EnsureBootstrapAdmin creates the first ADMIN account when it is missing.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil
	}
	if _, err := s.analysts.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !apperrors.IsNotFound(err) {
		return err
	}
	_, err := s.createAnalyst(ctx, AnalystCreateInput{
		Name:     "admin",
		Email:    email,
		Password: password,
		Role:     domain.AnalystRoleAdmin,
	})
	if err == nil {
		s.logger.Info("bootstrap admin created", zap.String("email", email))
	}
	return err
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, actor *domain.Analyst, currentPassword, newPassword string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("analyst required")
	}
	if newPassword == "" {
		return apperrors.NewValidationError("new password is required", nil)
	}
	analyst, err := s.analysts.GetByID(ctx, actor.ID)
	if err != nil {
		return mapLookupError(err, "analyst", map[string]any{"analyst_id": actor.ID})
	}
	if err := s.hasher.Verify(analyst.PasswordHash, currentPassword); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}
	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	analyst.PasswordHash = hash
	return apperrors.MapError(s.analysts.Update(ctx, analyst))
}

// ListAnalysts returns accounts, optionally filtered by role.
func (s *AuthService) ListAnalysts(ctx context.Context, role *domain.AnalystRole) ([]domain.Analyst, error) {
	analysts, err := s.analysts.List(ctx, role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return analysts, nil
}

// SetActive enables or disables an account (ADMIN).
func (s *AuthService) SetActive(ctx context.Context, actor *domain.Analyst, id string, active bool) (*domain.Analyst, error) {
	if err := requireRole(actor); err != nil {
		return nil, err
	}
	if actor.ID == id && !active {
		return nil, apperrors.NewConflict("cannot deactivate yourself", nil)
	}
	analyst, err := s.analysts.GetByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "analyst", map[string]any{"analyst_id": id})
	}
	analyst.Active = active
	if err := s.analysts.Update(ctx, analyst); err != nil {
		return nil, apperrors.MapError(err)
	}
	return analyst, nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(err.Error(), nil)
	}
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return hash, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
