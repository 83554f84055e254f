package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer issues signed access tokens
type TokenIssuer interface {
	GenerateToken(userID int64, role string) (*auth.Token, error)
}

// AuthService handles login and logout
type AuthService struct {
	userRepo  identity.UserRepository
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Login checks the email and password and returns an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login attempt for unknown email")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, identity.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("role", user.Role.String()))

	return &LoginResult{
		Token:     token.AccessToken,
		Role:      user.Role.String(),
		UserID:    user.ID,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Logout revokes the caller's token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("User logged out", zap.Int64("user_id", input.UserID))
	return nil
}
