// Package account registers barbers and customers, signs them in, and lets
// barbers maintain their service catalog and working window.
package account

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-queue/internal/clock"
	domain "github.com/BruksfildServices01/barber-queue/internal/domain/account"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is what a bearer token proves about its holder.
type Claims struct {
	ID   uint
	Role domain.Role
}

// Tokens signs and verifies HS256 bearer tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokens(secret string, ttl time.Duration, clk clock.Clock) *Tokens {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (t *Tokens) Issue(id uint, role domain.Role) (string, time.Time, error) {
	now := t.clock.Now()
	exp := now.Add(t.ttl)

	claims := jwt.MapClaims{
		"sub":  id,
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.clock.Now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	id, ok := claims["sub"].(float64)
	role, _ := claims["role"].(string)
	if !ok || id <= 0 || !domain.Role(role).Valid() {
		return nil, ErrInvalidToken
	}

	return &Claims{ID: uint(id), Role: domain.Role(role)}, nil
}
