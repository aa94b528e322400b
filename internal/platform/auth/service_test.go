package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct{ cred *Credential }

func (f *fakeStore) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	if f.cred != nil && f.cred.Email == email {
		return f.cred, nil
	}
	return nil, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLoginIssuesTokenWithSubjectAndRole(t *testing.T) {
	svc := &Service{
		store: &fakeStore{cred: &Credential{
			UserID: 7, Email: "alice@example.com", PasswordHash: hash(t, "hunter22"), Role: "admin",
		}},
		secret:   testSecret,
		tokenTTL: time.Hour,
	}

	tokenStr, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) { return testSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "7", claims["sub"])
	require.Equal(t, "admin", claims["role"])
}

func TestLoginFailsUniformly(t *testing.T) {
	cred := &Credential{
		UserID: 7, Email: "alice@example.com", PasswordHash: hash(t, "hunter22"), Role: "admin",
	}
	svc := &Service{store: &fakeStore{cred: cred}, secret: testSecret, tokenTTL: time.Hour}

	// Wrong password, unknown email and a disabled account must be
	// indistinguishable to the caller.
	_, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrAuthFailed)

	_, err = svc.Login(context.Background(), "nobody@example.com", "hunter22")
	require.ErrorIs(t, err, ErrAuthFailed)

	cred.IsDisabled = true
	_, err = svc.Login(context.Background(), "alice@example.com", "hunter22")
	require.ErrorIs(t, err, ErrAuthFailed)
}
