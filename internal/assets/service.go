package assets

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

func (s *Service) Create(ctx context.Context, in CreateAssetRequest) (AssetResponse, error) {
	in.ProductName = strings.TrimSpace(in.ProductName)
	in.InventoryCode = strings.TrimSpace(in.InventoryCode)
	if in.ProductName == "" || in.InventoryCode == "" {
		return AssetResponse{}, apierr.Invalid("product_name and inventory_code are required")
	}
	if in.Status == "" {
		in.Status = StatusInStorage
	}
	if !ValidStatus(in.Status) {
		return AssetResponse{}, apierr.Invalid("invalid status")
	}
	if in.Status == StatusDisposed {
		return AssetResponse{}, apierr.Invalid("an asset cannot be created as disposed")
	}

	id, err := s.store.Insert(ctx, in)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return AssetResponse{}, apierr.Conflict("serial_number or inventory_code already exists")
			case 1452:
				return AssetResponse{}, apierr.Invalid("invalid company_id, section_id or location_id")
			}
		}
		return AssetResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AssetResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (AssetResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return AssetResponse{}, apierr.NotFound("asset not found")
		}
		return AssetResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, q AssetSearchQuery, p Page) ([]AssetResponse, int64, error) {
	if q.Status != nil && !ValidStatus(*q.Status) {
		return nil, 0, apierr.Invalid("invalid status")
	}
	return s.store.List(ctx, q, p)
}

// Update handles descriptive fields only. Placement and status move through
// the transfer workflow so every relocation leaves an audit record.
func (s *Service) Update(ctx context.Context, id int64, in UpdateAssetRequest) (AssetResponse, error) {
	if in.ProductName != nil && strings.TrimSpace(*in.ProductName) == "" {
		return AssetResponse{}, apierr.Invalid("product_name must not be empty")
	}
	if in.InventoryCode != nil && strings.TrimSpace(*in.InventoryCode) == "" {
		return AssetResponse{}, apierr.Invalid("inventory_code must not be empty")
	}

	if err := s.store.Update(ctx, id, in); err != nil {
		if err == sql.ErrNoRows {
			return AssetResponse{}, apierr.NotFound("asset not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			switch me.Number {
			case 1062:
				return AssetResponse{}, apierr.Conflict("serial_number or inventory_code already exists")
			case 1452:
				return AssetResponse{}, apierr.Invalid("invalid company_id")
			}
		}
		return AssetResponse{}, err
	}

	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AssetResponse{}, err
	}
	return *out, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("asset not found")
		}
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return apierr.Conflict("asset has transfer history or license assignments")
		}
		return err
	}
	return nil
}
