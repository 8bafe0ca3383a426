package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/sidhant-sriv/consumeless/models"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 3600 * time.Second

var (
	ErrMissingToken = errors.New("token is missing")
	ErrInvalidToken = errors.New("token is invalid")
)

// Claims is the identity carried by a token.
type Claims struct {
	UserID    uint     `json:"user_id"`
	Latitude  *float64 `json:"user_lat"`
	Longitude *float64 `json:"user_long"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens with a single server secret.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// WithClock returns a copy of the issuer that reads time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	return &Issuer{secret: i.secret, now: now}
}

func (i *Issuer) Issue(user models.User) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret key not configured")
	}
	issuedAt := i.now().UTC()
	claims := Claims{
		UserID:    user.ID,
		Latitude:  user.Latitude,
		Longitude: user.Longitude,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Validate checks the signature and expiry of tokenString. Every failure
// wraps ErrInvalidToken; an empty string yields ErrMissingToken.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	// expiry is checked here so the issuer's clock applies
	if claims.ExpiresAt == nil || !i.now().Before(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return claims, nil
}
