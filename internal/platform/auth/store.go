package auth

import (
	"context"
	"database/sql"
	"errors"
)

// Credential is the slice of the users row the login flow needs.
type Credential struct {
	UserID       int64
	Email        string
	PasswordHash string
	Role         string
	IsDisabled   bool
}

type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*Credential, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) CredentialStore {
	return &Store{db: db}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Credential, error) {
	const q = `
SELECT u.user_id, u.email, u.password_hash, COALESCE(r.name, ''), u.is_disabled
FROM users u
LEFT JOIN user_roles ur ON ur.user_id = u.user_id
LEFT JOIN roles r ON r.role_id = ur.role_id
WHERE u.email = ? AND u.deleted_at IS NULL
ORDER BY r.role_id
LIMIT 1
`
	var cred Credential
	var isDisabledInt int
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&cred.UserID,
		&cred.Email,
		&cred.PasswordHash,
		&cred.Role,
		&isDisabledInt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if isDisabledInt != 0 {
		cred.IsDisabled = true
	}
	return &cred, nil
}
