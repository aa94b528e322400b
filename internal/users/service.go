package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"uam-backend/internal/platform/apierr"
	"uam-backend/internal/platform/db"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(d *sql.DB) *Service { return &Service{db: d, store: NewStore(d)} }

func (s *Service) Create(ctx context.Context, in CreateUserRequest) (UserResponse, error) {
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.Email = strings.TrimSpace(in.Email)
	if in.NationalID == "" || in.Email == "" ||
		strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return UserResponse{}, apierr.Invalid("national_id, first_name, last_name, email are required")
	}
	if len(in.Password) < 8 {
		return UserResponse{}, apierr.Invalid("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	var userID int64
	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		id, err := s.store.InsertTx(ctx, tx, in, string(hash))
		if err != nil {
			return err
		}
		userID = id
		if len(in.Roles) > 0 {
			return s.store.ReplaceRolesTx(ctx, tx, userID, in.Roles)
		}
		return nil
	})
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return UserResponse{}, apierr.Conflict("national_id or email already exists")
			case 1452:
				return UserResponse{}, apierr.Invalid("invalid section_id or role id")
			}
		}
		return UserResponse{}, err
	}

	out, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return UserResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (UserResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return UserResponse{}, apierr.NotFound("user not found")
		}
		return UserResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, search string, sectionID *int64) ([]UserResponse, error) {
	return s.store.List(ctx, search, sectionID)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateUserRequest) (UserResponse, error) {
	var hash *string
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return UserResponse{}, apierr.Invalid("password must be at least 8 characters")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		hs := string(h)
		hash = &hs
	}

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if err := s.store.UpdateTx(ctx, tx, id, in, hash); err != nil {
			return err
		}
		if in.Roles != nil {
			// Role-only updates skip the UPDATE, so the row's existence still
			// has to be checked before touching user_roles.
			ok, err := s.store.ExistsTx(ctx, tx, id)
			if err != nil {
				return err
			}
			if !ok {
				return sql.ErrNoRows
			}
			return s.store.ReplaceRolesTx(ctx, tx, id, *in.Roles)
		}
		return nil
	})
	if err != nil {
		if err == sql.ErrNoRows {
			return UserResponse{}, apierr.NotFound("user not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return UserResponse{}, apierr.Conflict("national_id or email already exists")
			case 1452:
				return UserResponse{}, apierr.Invalid("invalid section_id or role id")
			}
		}
		return UserResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return UserResponse{}, apierr.NotFound("user not found")
		}
		return UserResponse{}, err
	}
	return *out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("user not found")
		}
		return err
	}
	return nil
}

func (s *Service) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	return s.store.ListRoles(ctx)
}
