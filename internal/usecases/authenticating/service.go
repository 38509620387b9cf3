package authenticating

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
	"github.com/vfg2006/crm-pipeline-api/pkg/apiErrors"
)

// Authenticator valida os tokens emitidos pelo serviço de identidade
type Authenticator interface {
	ValidateToken(tokenString string) (*domain.Claims, error)
	IssueToken(claims domain.Claims, ttl time.Duration) (string, error)
}

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{cfg: cfg}
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	if s.cfg.SecretKey == "" {
		return nil, rejectToken(ErrMissingSecret, apiErrors.ErrInvalidToken, nil)
	}

	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, rejectToken(ErrExpiredToken, apiErrors.ErrExpiredToken, err)
		}
		return nil, rejectToken(ErrInvalidToken, apiErrors.ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*domain.Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, rejectToken(ErrInvalidToken, apiErrors.ErrInvalidToken, nil)
}

// IssueToken assina um token HS256 com a chave da aplicação
func (s *Service) IssueToken(claims domain.Claims, ttl time.Duration) (string, error) {
	if s.cfg.SecretKey == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SecretKey))
}
