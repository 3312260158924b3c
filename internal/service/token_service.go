package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/writespace/internal/model"
)

// ErrInvalidToken 表示访问令牌无法解析、签名不符或已过期。
var ErrInvalidToken = errors.New("invalid token")

const defaultTokenTTL = 72 * time.Hour

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService 为 API 客户端签发和校验 HS256 令牌。
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a TokenService; ttl <= 0 falls back to 72h.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "writespace",
		now:    time.Now,
	}
}

// Generate 为用户签发令牌，sub 为用户 id。
func (s *TokenService) Generate(user model.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse 校验令牌并返回其中的用户 id。
func (s *TokenService) Parse(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidToken
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
