package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionAudience = "sst-web"

// ErrInvalidToken indica cookie de sessão adulterado, expirado ou malformado.
var ErrInvalidToken = errors.New("token de sessão inválido")

// TokenSigner assina o identificador de sessão guardado no cookie.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner cria o assinador com SECRET_KEY e validade da sessão.
func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl}
}

// TTL devolve a validade aplicada aos tokens.
func (s *TokenSigner) TTL() time.Duration {
	return s.ttl
}

// Sign cria um JWT HS256 cujo jti é o id de sessão.
func (s *TokenSigner) Sign(sessionID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Audience:  jwt.ClaimStrings{sessionAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Parse valida assinatura, audiência e expiração e devolve o id de sessão.
func (s *TokenSigner) Parse(token string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
	)

	var claims jwt.RegisteredClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
