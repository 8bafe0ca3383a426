package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/sidhant-sriv/consumeless/models"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestIssueValidate_RoundTrip(t *testing.T) {
	lat, lng := 51.51746, -0.07329
	issuer := NewIssuer("test-secret")

	tok, err := issuer.Issue(models.User{ID: 42, Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := issuer.Validate(tok)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.NotNil(t, claims.Latitude)
	require.InDelta(t, lat, *claims.Latitude, 1e-9)
	require.InDelta(t, lng, *claims.Longitude, 1e-9)
	require.Equal(t, TokenTTL, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestValidate_Expiry(t *testing.T) {
	t0 := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewIssuer("test-secret").WithClock(fixedClock(t0))

	tok, err := issuer.Issue(models.User{ID: 7})
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(t0.Add(59 * time.Minute))).Validate(tok)
	require.NoError(t, err)

	_, err = issuer.WithClock(fixedClock(t0.Add(TokenTTL))).Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.WithClock(fixedClock(t0.Add(2 * time.Hour))).Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Missing(t *testing.T) {
	_, err := NewIssuer("test-secret").Validate("")
	require.ErrorIs(t, err, ErrMissingToken)
	require.False(t, errors.Is(err, ErrInvalidToken))
}

func TestValidate_WrongSecret(t *testing.T) {
	tok, err := NewIssuer("one").Issue(models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewIssuer("two").Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := NewIssuer("test-secret").Validate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewIssuer("test-secret").Validate(tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewIssuer("test-secret").Validate(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_RequiresSecret(t *testing.T) {
	_, err := NewIssuer("").Issue(models.User{ID: 1})
	require.Error(t, err)
}
