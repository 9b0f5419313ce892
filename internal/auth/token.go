package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token has expired")
)

// DefaultSessionTTL keeps a login valid for 30 days.
const DefaultSessionTTL = 30 * 24 * time.Hour

type TokenConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

type Claims struct {
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	config TokenConfig
	now    func() time.Time
}

func NewTokenManager(config TokenConfig) (*TokenManager, error) {
	if len(config.SecretKey) < 8 {
		return nil, errors.New("auth: token secret must be at least 8 characters")
	}
	if config.TTL <= 0 {
		config.TTL = DefaultSessionTTL
	}
	if config.Issuer == "" {
		config.Issuer = "todolist"
	}
	return &TokenManager{config: config, now: time.Now}, nil
}

func (m *TokenManager) Issue(username, displayName string) (string, error) {
	now := m.now()
	claims := Claims{
		Username:    username,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

func (m *TokenManager) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.config.SecretKey), nil
	}, jwt.WithIssuer(m.config.Issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
