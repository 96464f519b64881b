package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lithium-edu/exam-rooms-api/internal/models"
	"github.com/lithium-edu/exam-rooms-api/pkg/config"
	appErrors "github.com/lithium-edu/exam-rooms-api/pkg/errors"
)

type userReader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenClaims is the JWT payload issued at login and verified by the auth
// middleware.
type TokenClaims struct {
	models.JWTClaims
	jwt.RegisteredClaims
}

// AuthService issues tokens for operator accounts.
type AuthService struct {
	users  userReader
	secret []byte
	expiry time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(users userReader, cfg config.JWTConfig) *AuthService {
	return &AuthService{users: users, secret: []byte(cfg.Secret), expiry: cfg.Expiration}
}

// Login verifies the credentials and returns a signed token with the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil, appErrors.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.Active {
		return "", nil, appErrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, appErrors.ErrInvalidCredentials
	}

	now := time.Now()
	claims := TokenClaims{
		JWTClaims: models.JWTClaims{UserID: user.ID, Email: user.Email, Role: user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			Subject:   user.ID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign token")
	}
	return token, user, nil
}

// ValidateToken parses and validates a token issued by Login.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.ErrUnauthorized
	}
	return &claims.JWTClaims, nil
}
