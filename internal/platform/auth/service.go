package auth

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrAuthFailed = errors.New("authentication failed")

type Service struct {
	store    CredentialStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(db *sql.DB, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{store: NewStore(db), secret: secret, tokenTTL: tokenTTL}
}

// Login checks the password and returns a signed session token.
// Unknown email, bad password and disabled account all return ErrAuthFailed
// so the reply does not leak which one it was.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	cred, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if cred == nil || cred.IsDisabled {
		return "", ErrAuthFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", ErrAuthFailed
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(cred.UserID, 10),
		"role": cred.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}
