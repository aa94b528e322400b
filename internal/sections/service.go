package sections

import (
	"context"
	"database/sql"
	"strings"

	"uam-backend/internal/platform/apierr"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

func (s *Service) Create(ctx context.Context, in CreateSectionRequest) (SectionResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return SectionResponse{}, apierr.Invalid("name is required")
	}

	exists, err := s.store.NameExists(ctx, name, 0)
	if err != nil {
		return SectionResponse{}, err
	}
	if exists {
		return SectionResponse{}, apierr.Conflict("section name already exists")
	}

	if in.ParentSectionID != nil {
		if _, err := s.store.GetByID(ctx, *in.ParentSectionID); err != nil {
			if err == sql.ErrNoRows {
				return SectionResponse{}, apierr.Invalid("parent_section_id does not exist")
			}
			return SectionResponse{}, err
		}
	}

	id, err := s.store.Insert(ctx, name, in.ParentSectionID)
	if err != nil {
		return SectionResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return SectionResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (SectionResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return SectionResponse{}, apierr.NotFound("section not found")
		}
		return SectionResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context) ([]SectionResponse, error) {
	return s.store.List(ctx)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateSectionRequest) (SectionResponse, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return SectionResponse{}, apierr.Invalid("name must not be empty")
		}
		in.Name = &name

		exists, err := s.store.NameExists(ctx, name, id)
		if err != nil {
			return SectionResponse{}, err
		}
		if exists {
			return SectionResponse{}, apierr.Conflict("section name already exists")
		}
	}

	if in.ParentSectionID != nil {
		// A section must not be its own parent.
		if *in.ParentSectionID == id {
			return SectionResponse{}, apierr.Invalid("section cannot be its own parent")
		}
		if _, err := s.store.GetByID(ctx, *in.ParentSectionID); err != nil {
			if err == sql.ErrNoRows {
				return SectionResponse{}, apierr.Invalid("parent_section_id does not exist")
			}
			return SectionResponse{}, err
		}
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		if err == sql.ErrNoRows {
			return SectionResponse{}, apierr.NotFound("section not found")
		}
		return SectionResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return SectionResponse{}, err
	}
	return *out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("section not found")
		}
		return err
	}
	return nil
}
