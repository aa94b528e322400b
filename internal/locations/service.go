package locations

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

func (s *Service) Create(ctx context.Context, in CreateLocationRequest) (LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return LocationResponse{}, apierr.Invalid("name is required")
	}

	if in.SectionID != nil {
		ok, err := s.store.SectionExists(ctx, *in.SectionID)
		if err != nil {
			return LocationResponse{}, err
		}
		if !ok {
			return LocationResponse{}, apierr.Invalid("section_id does not exist")
		}
	}

	exists, err := s.store.NameExistsInSection(ctx, name, in.SectionID, 0)
	if err != nil {
		return LocationResponse{}, err
	}
	if exists {
		return LocationResponse{}, apierr.Conflict("location name already exists in this section")
	}

	id, err := s.store.Insert(ctx, name, in.SectionID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return LocationResponse{}, apierr.Conflict("location name already exists in this section")
			case 1452:
				return LocationResponse{}, apierr.Invalid("section_id does not exist")
			}
		}
		return LocationResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return LocationResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (LocationResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return LocationResponse{}, apierr.NotFound("location not found")
		}
		return LocationResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, sectionID *int64) ([]LocationResponse, error) {
	return s.store.List(ctx, sectionID)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateLocationRequest) (LocationResponse, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return LocationResponse{}, apierr.NotFound("location not found")
		}
		return LocationResponse{}, err
	}

	if in.SectionID != nil {
		ok, err := s.store.SectionExists(ctx, *in.SectionID)
		if err != nil {
			return LocationResponse{}, err
		}
		if !ok {
			return LocationResponse{}, apierr.Invalid("section_id does not exist")
		}
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return LocationResponse{}, apierr.Invalid("name must not be empty")
		}
		in.Name = &name
	}

	// Uniqueness check against the section the row will end up in. A section
	// move alone can collide with a same-named location already there, so the
	// check runs whenever either the name or the section changes.
	if in.Name != nil || in.SectionID != nil {
		name := current.Name
		if in.Name != nil {
			name = *in.Name
		}
		target := current.SectionID
		if in.SectionID != nil {
			target = in.SectionID
		}
		exists, err := s.store.NameExistsInSection(ctx, name, target, id)
		if err != nil {
			return LocationResponse{}, err
		}
		if exists {
			return LocationResponse{}, apierr.Conflict("location name already exists in this section")
		}
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		if err == sql.ErrNoRows {
			return LocationResponse{}, apierr.NotFound("location not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return LocationResponse{}, apierr.Conflict("location name already exists in this section")
		}
		return LocationResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return LocationResponse{}, err
	}
	return *out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("location not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return apierr.Conflict("location is referenced by assets or transfers")
		}
		return err
	}
	return nil
}
