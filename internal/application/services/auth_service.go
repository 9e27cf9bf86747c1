package services

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/core/ports"
)

// JWTConfig holds token signing parameters.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type tokenClaims struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates users and issues self-contained access tokens.
type AuthService struct {
	userRepo     ports.UserRepository
	tenantRepo   ports.TenantRepository
	emailService ports.EmailService
	jwtConfig    JWTConfig
	logger       *logrus.Logger
}

func NewAuthService(userRepo ports.UserRepository, tenantRepo ports.TenantRepository, emailService ports.EmailService, jwtConfig JWTConfig, logger *logrus.Logger) ports.AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		emailService: emailService,
		jwtConfig:    jwtConfig,
		logger:       logger,
	}
}

// Login verifies credentials and returns a signed access token. Every
// failure path collapses to ErrUnauthorized so responses cannot distinguish
// unknown accounts from wrong passwords.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, ports.ErrUnauthorized
	}
	if !u.IsActive {
		return "", nil, ports.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ports.ErrUnauthorized
	}

	t, err := s.tenantRepo.GetByID(ctx, u.TenantID)
	if err != nil {
		return "", nil, ports.ErrUnauthorized
	}
	if !t.CanAccess() {
		return "", nil, ports.ErrUnauthorized
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, u, nil
}

// RequestPasswordReset reports success regardless of whether the account
// exists; the notification goes out only when it does.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil
	}
	if err := s.emailService.SendPasswordResetNotice(ctx, u.Email, u.FirstName); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"user_id": u.ID}).WithError(err).Warn("failed to send password reset notice")
		}
	}
	return nil
}

func (s *AuthService) issueToken(u *user.User) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		TenantID: u.TenantID.String(),
		Email:    u.Email,
		Role:     string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

func (s *AuthService) ValidateToken(tokenString string) (*ports.AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ports.ErrUnauthorized
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return nil, ports.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ports.ErrUnauthorized
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, ports.ErrUnauthorized
	}

	return &ports.AuthClaims{
		UserID:   userID,
		TenantID: tenantID,
		Email:    claims.Email,
		Role:     user.Role(claims.Role),
	}, nil
}
