package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oona/internal/caching"
	"oona/internal/models"
	"oona/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer      = "oona-auth"
	tokenAudience    = "oona-admin"
	loginLimit       = 5
	loginLimitWindow = 15 * time.Minute
)

// AuthService holds the staff session: sign in, sign out and current session.
type AuthService interface {
	SignIn(ctx context.Context, email, password, clientKey string) (*models.TokenResponse, *models.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	CurrentSession(ctx context.Context, sessionID string) (*models.Session, error)
	EnsureStaffUser(ctx context.Context, email, password, fullName string) error
}

// TokenClaims are the claims carried by an admin access token. ID is the session id.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	userRepo  repositories.UserRepository
	cacheSvc  caching.CacheService
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, cacheSvc caching.CacheService, jwtSecret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:  userRepo,
		cacheSvc:  cacheSvc,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func loginKey(email, clientKey string) string {
	return "login:" + clientKey + ":" + strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignIn(ctx context.Context, email, password, clientKey string) (*models.TokenResponse, *models.Session, error) {
	if strings.TrimSpace(email) == "" {
		return nil, nil, fieldError("email", "email is required")
	}
	if password == "" {
		return nil, nil, fieldError("password", "password is required")
	}

	limitKey := loginKey(email, clientKey)
	limited, err := s.cacheSvc.IsRateLimited(ctx, limitKey, loginLimit, loginLimitWindow)
	if err != nil {
		log.Warnf("login rate limit check failed: %v", err)
	} else if limited {
		return nil, nil, ErrRateLimited
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up staff user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	claims := TokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        session.ID,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	if err := s.cacheSvc.SetSession(ctx, session, s.tokenTTL); err != nil {
		return nil, nil, fmt.Errorf("failed to store session: %w", err)
	}
	if err := s.cacheSvc.ResetRateLimit(ctx, limitKey); err != nil {
		log.Warnf("failed to reset login limit: %v", err)
	}
	log.Infof("staff user %s signed in", user.Email)

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		ExpiresAt:   session.ExpiresAt,
	}, session, nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.cacheSvc.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

func (s *authService) CurrentSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.cacheSvc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil || s.now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// EnsureStaffUser creates the account unless the email already exists.
func (s *authService) EnsureStaffUser(ctx context.Context, email, password, fullName string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return fieldError("email", "email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	created, err := s.userRepo.Create(ctx, &models.User{
		ID:           uuid.New(),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		FullName:     fullName,
	})
	if err != nil {
		return err
	}
	if created {
		log.Infof("staff user %s created", email)
	}
	return nil
}
