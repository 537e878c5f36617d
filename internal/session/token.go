// Package session resolves the signed-in shopper, if any, from a bearer
// token. Being anonymous is normal; the identity only prefills checkout.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the token payload.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies identity tokens with HS256.
type TokenService struct {
	secretKey []byte
	expiry    time.Duration
	now       func() time.Time
}

// NewTokenService creates a TokenService whose tokens live for expiry.
func NewTokenService(secretKey string, expiry time.Duration) *TokenService {
	return &TokenService{
		secretKey: []byte(secretKey),
		expiry:    expiry,
		now:       time.Now,
	}
}

// Issue signs a token for id.
func (s *TokenService) Issue(id Identity) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.expiry)

	claims := Claims{
		Name:    id.Name,
		Email:   id.Email,
		Phone:   id.Phone,
		Address: id.Address,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// identity it carries.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Subject: claims.Subject,
		Name:    claims.Name,
		Email:   claims.Email,
		Phone:   claims.Phone,
		Address: claims.Address,
	}, nil
}
