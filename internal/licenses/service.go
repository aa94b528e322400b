package licenses

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"

	"uam-backend/internal/platform/apierr"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func (s *Service) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Service) Create(ctx context.Context, in CreateLicenseRequest) (LicenseResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Vendor = strings.TrimSpace(in.Vendor)
	if in.Name == "" || in.Vendor == "" {
		return LicenseResponse{}, apierr.Invalid("name and vendor are required")
	}
	if in.Seats <= 0 {
		return LicenseResponse{}, apierr.Invalid("seats must be > 0")
	}

	id, err := s.store.Insert(ctx, in)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return LicenseResponse{}, apierr.Conflict("license already exists")
		}
		return LicenseResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return LicenseResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (LicenseResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return LicenseResponse{}, apierr.NotFound("license not found")
		}
		return LicenseResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, search string) ([]LicenseResponse, error) {
	return s.store.List(ctx, search)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateLicenseRequest) (LicenseResponse, error) {
	if in.Seats != nil && *in.Seats <= 0 {
		return LicenseResponse{}, apierr.Invalid("seats must be > 0")
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		if err == sql.ErrNoRows {
			return LicenseResponse{}, apierr.NotFound("license not found")
		}
		return LicenseResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return LicenseResponse{}, err
	}
	return *out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("license not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return apierr.Conflict("license still has assignments")
		}
		return err
	}
	return nil
}

// Assign books one seat for an asset. Seat counting happens under a row lock
// so two concurrent assignments cannot both take the last seat.
func (s *Service) Assign(ctx context.Context, licenseID int64, in AssignRequest) (AssignmentResponse, error) {
	if in.AssetID <= 0 {
		return AssignmentResponse{}, apierr.Invalid("asset_id is required")
	}

	var assignmentID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		seats, err := s.store.LockLicenseRow(ctx, tx, licenseID)
		if err != nil {
			if err == sql.ErrNoRows {
				return apierr.NotFound("license not found")
			}
			return err
		}

		assigned, err := s.store.CountAssignmentsTx(ctx, tx, licenseID)
		if err != nil {
			return err
		}
		if assigned >= seats {
			return apierr.Conflict("no seats available")
		}

		id, err := s.store.InsertAssignmentTx(ctx, tx, licenseID, in.AssetID)
		if err != nil {
			var me *mysql.MySQLError
			if errors.As(err, &me) {
				switch me.Number {
				case 1062:
					return apierr.Conflict("asset already has this license")
				case 1452:
					return apierr.Invalid("asset_id does not exist")
				}
			}
			return err
		}
		assignmentID = id
		return nil
	})
	if err != nil {
		return AssignmentResponse{}, err
	}

	out, err := s.store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return AssignmentResponse{}, err
	}
	return *out, nil
}

func (s *Service) ListAssignments(ctx context.Context, licenseID int64) ([]AssignmentResponse, error) {
	return s.store.ListAssignments(ctx, licenseID)
}

func (s *Service) Unassign(ctx context.Context, licenseID, assignmentID int64) error {
	if err := s.store.DeleteAssignment(ctx, licenseID, assignmentID); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("assignment not found")
		}
		return err
	}
	return nil
}
