package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/01moynul/autoparts-golang/internal/config"
)

// CookieName is the HttpOnly cookie that carries the token.
const CookieName = "token"

var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and checks the HS256 tokens carried in the auth cookie.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(cfg config.JWTConfig) *Tokens {
	return &Tokens{secret: []byte(cfg.Secret), ttl: cfg.TTL, now: time.Now}
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// GenerateToken creates a signed token for a given user ID.
func (t *Tokens) GenerateToken(userID uint) (string, error) {
	// 1. The subject is the user id; expiry follows the configured TTL
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	// 2. Sign with HS256
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ValidateToken parses a token and returns the user ID it was issued for.
func (t *Tokens) ValidateToken(tokenString string) (uint, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}
