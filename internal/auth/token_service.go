package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErr "github.com/samims/ecowatt/internal/errors"
	"github.com/samims/ecowatt/internal/model"
)

type TokenService interface {
	IdentityResolver
	GenerateToken(id *Identity) (string, error)
}

type jwtService struct {
	secret     []byte
	expiryTime time.Duration
	now        func() time.Time
}

func NewJWTService(secret string, expiry time.Duration) TokenService {
	return &jwtService{secret: []byte(secret), expiryTime: expiry, now: time.Now}
}

func (s *jwtService) GenerateToken(id *Identity) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   id.UserID,
		"email": id.Email,
		"role":  string(id.Role),
		"exp":   now.Add(s.expiryTime).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *jwtService) Resolve(_ context.Context, tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", appErr.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: %v", appErr.ErrUnauthorized, jwt.ErrTokenMalformed)
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, fmt.Errorf("%w: %v", appErr.ErrUnauthorized, jwt.ErrTokenMalformed)
	}
	return &Identity{UserID: sub, Email: email, Role: model.Role(role)}, nil
}
