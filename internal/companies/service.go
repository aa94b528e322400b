package companies

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

func (s *Service) Create(ctx context.Context, in CreateCompanyRequest) (CompanyResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	if in.Name == "" || in.TaxID == "" {
		return CompanyResponse{}, apierr.Invalid("name and tax_id are required")
	}

	id, err := s.store.Insert(ctx, in)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return CompanyResponse{}, apierr.Conflict("company name or tax_id already exists")
		}
		return CompanyResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (CompanyResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return CompanyResponse{}, apierr.NotFound("company not found")
		}
		return CompanyResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, search string) ([]CompanyResponse, error) {
	return s.store.List(ctx, search)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateCompanyRequest) (CompanyResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return CompanyResponse{}, apierr.Invalid("name must not be empty")
	}
	if in.TaxID != nil && strings.TrimSpace(*in.TaxID) == "" {
		return CompanyResponse{}, apierr.Invalid("tax_id must not be empty")
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		if err == sql.ErrNoRows {
			return CompanyResponse{}, apierr.NotFound("company not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return CompanyResponse{}, apierr.Conflict("company name or tax_id already exists")
		}
		return CompanyResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	return *out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("company not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return apierr.Conflict("company is referenced by assets")
		}
		return err
	}
	return nil
}
