package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spockey4711/trainingbuilder/internal/config"
	"github.com/spockey4711/trainingbuilder/internal/domain"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and validates the app's HS256 access tokens
type TokenService struct {
	jwtConfig config.JWTConfig
	now       func() time.Time
}

// NewTokenService creates a new token service
func NewTokenService(jwtConfig config.JWTConfig) *TokenService {
	if jwtConfig.AccessTokenExpiry <= 0 {
		jwtConfig.AccessTokenExpiry = 72 * time.Hour
	}
	return &TokenService{
		jwtConfig: jwtConfig,
		now:       time.Now,
	}
}

// AccessToken is a signed token and its lifetime in seconds
type AccessToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// GenerateAccessToken signs a token carrying the athlete's identity
func (s *TokenService) GenerateAccessToken(user *domain.User) (*AccessToken, error) {
	now := s.now()
	claims := domain.AthleteClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AccessToken{
		Token:     signed,
		ExpiresIn: int64(s.jwtConfig.AccessTokenExpiry.Seconds()),
	}, nil
}

// ValidateAccessToken parses a token and returns its claims
func (s *TokenService) ValidateAccessToken(tokenString string) (*domain.AthleteClaims, error) {
	claims := &domain.AthleteClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
