package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Auth errors
var (
	ErrPasswordMismatch   = shared.NewDomainError("PASSWORD_MISMATCH", "Passwords do not match.")
	ErrUsernameTaken      = shared.NewDomainError("USERNAME_EXISTS", "Username already exists.")
	ErrEmailTaken         = shared.NewDomainError("EMAIL_EXISTS", "Email already exists.")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password.")
	ErrUserNotFound       = shared.NewDomainError("USER_NOT_FOUND", "User not found.")
)

// AuthService handles customer and staff authentication
type AuthService struct {
	userRepo       identity.UserRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates a customer account and signs it in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if req.Password != req.Password2 {
		return nil, ErrPasswordMismatch
	}

	username := strings.TrimSpace(req.Username)
	taken, err := s.userRepo.Conflicts(ctx, username, req.Email)
	if err != nil {
		return nil, err
	}
	switch {
	case taken.Username:
		return nil, ErrUsernameTaken
	case taken.Email:
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	user.SetName(req.FirstName, req.LastName)
	user.RecordLogin(s.now())

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return s.issueTokens(user)
}

// Login authenticates by username or email and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	login := strings.TrimSpace(req.Username)

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("login", login))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() || !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid login attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	user.RecordLogin(s.now())
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Bool("staff", user.IsStaff))

	return s.issueTokens(user)
}

// Refresh exchanges a refresh token for a new pair, reloading permissions
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, mapTokenError(auth.ErrInvalidClaims)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active.")
	}

	pair, err := s.jwtService.Rotate(claims, user.Permissions())
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	return toAuthResult(pair, nil), nil
}

// Logout revokes the access token until it would have expired
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the profile of the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

func (s *AuthService) issueTokens(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.Issue(auth.Subject{
		UserID:      user.ID,
		Username:    user.Username,
		Permissions: user.Permissions(),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	info := ToUserInfo(user)
	return toAuthResult(pair, &info), nil
}

func (s *AuthService) publish(ctx context.Context, user *identity.User) {
	if err := shared.PublishPending(ctx, s.eventPublisher, user); err != nil {
		s.logger.Error("Failed to publish user events", zap.Error(err))
	}
}

func toAuthResult(pair *auth.TokenPair, user *UserInfo) *AuthResult {
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  user,
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired.")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Session expired. Please log in again.")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token.")
	}
}
