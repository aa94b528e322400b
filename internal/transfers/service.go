package transfers

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sirupsen/logrus"

	"uam-backend/internal/assets"
	"uam-backend/internal/platform/apierr"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db, store: NewStore(db)}
}

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

// Create records one asset movement: it resolves every human-readable
// identifier to a primary key, checks that the authorizing user is the
// authenticated caller, applies the movement policy to the asset row and
// appends the audit record, all in a single transaction. Any failure rolls
// the whole thing back; a moved asset without its transfer row (or the
// reverse) is never observable.
//
// callerUserID is the authenticated session's user id, passed in explicitly
// so the authorization check is a plain comparison.
func (s *Service) Create(ctx context.Context, assetID, callerUserID int64, in CreateTransferRequest) (TransferResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(in.MovementKind))
	if !ValidKind(kind) {
		return TransferResponse{}, apierr.Invalid("movement_kind must be one of internal, external, disposal")
	}
	if strings.TrimSpace(in.FromSectionName) == "" ||
		strings.TrimSpace(in.TargetSectionName) == "" ||
		strings.TrimSpace(in.TargetLocationName) == "" {
		return TransferResponse{}, apierr.Invalid("from_section_name, target_section_name, target_location_name are required")
	}
	if strings.TrimSpace(in.AuthorizedByNationalID) == "" || strings.TrimSpace(in.ReceivedByNationalID) == "" {
		return TransferResponse{}, apierr.Invalid("authorized_by_national_id and received_by_national_id are required")
	}
	if in.TransferDate.IsZero() || in.ReceivedDate.IsZero() {
		return TransferResponse{}, apierr.Invalid("transfer_date and received_date are required")
	}

	var transferID int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		// Prior placement, read before the update: this is what the audit
		// row records as from_*, not the caller's claimed section.
		prior, err := s.store.GetAssetStateTx(ctx, tx, assetID)
		if err != nil {
			return err
		}

		// The claimed origin section must exist, but it is not cross-checked
		// against the asset's actual section; any authorized user may move
		// any asset.
		if _, err := s.store.ResolveSectionTx(ctx, tx, strings.TrimSpace(in.FromSectionName), "from"); err != nil {
			return err
		}

		targetSectionID, err := s.store.ResolveSectionTx(ctx, tx, strings.TrimSpace(in.TargetSectionName), "target")
		if err != nil {
			return err
		}

		targetLocationID, err := s.store.ResolveLocationTx(ctx, tx, strings.TrimSpace(in.TargetLocationName), targetSectionID)
		if err != nil {
			return err
		}

		authorizedID, err := s.store.ResolveUserByNationalIDTx(ctx, tx, strings.TrimSpace(in.AuthorizedByNationalID), "authorizing")
		if err != nil {
			return err
		}
		if authorizedID != callerUserID {
			return apierr.Forbidden("authorizing user does not match the authenticated caller")
		}

		receivedID, err := s.store.ResolveUserByNationalIDTx(ctx, tx, strings.TrimSpace(in.ReceivedByNationalID), "receiving")
		if err != nil {
			return err
		}

		placement := computePlacement(kind, prior.Status, targetSectionID, targetLocationID)
		if err := s.store.UpdateAssetPlacementTx(ctx, tx, assetID, placement); err != nil {
			return err
		}

		rec := transferRecord{
			AssetID:        assetID,
			TransferDate:   sql.NullTime{Time: in.TransferDate.UTC(), Valid: true},
			FromSectionID:  prior.SectionID,
			FromLocationID: prior.LocationID,
			ToSectionID:    sql.NullInt64{Int64: targetSectionID, Valid: true},
			ToLocationID:   sql.NullInt64{Int64: targetLocationID, Valid: true},
			AuthorizedByID: authorizedID,
			ReceivedByID:   receivedID,
			ReceivedDate:   sql.NullTime{Time: in.ReceivedDate.UTC(), Valid: true},
			Notes:          buildNotes(kind, in.Notes),
		}
		id, err := s.store.InsertTransferTx(ctx, tx, rec)
		if err != nil {
			return err
		}
		transferID = id
		return nil
	})
	if err != nil {
		return TransferResponse{}, err
	}

	logrus.WithFields(logrus.Fields{
		"asset_id":      assetID,
		"transfer_id":   transferID,
		"movement_kind": kind,
	}).Info("asset transfer recorded")

	out, err := s.store.GetByID(ctx, transferID)
	if err != nil {
		return TransferResponse{}, err
	}
	return *out, nil
}

// computePlacement applies the movement policy. Disposal clears placement and
// parks the status; internal and external both move the asset and keep the
// status, differing only in the notes annotation.
func computePlacement(kind, priorStatus string, targetSectionID, targetLocationID int64) newPlacement {
	if kind == KindDisposal {
		return newPlacement{Status: assets.StatusDisposed}
	}
	return newPlacement{
		SectionID:  sql.NullInt64{Int64: targetSectionID, Valid: true},
		LocationID: sql.NullInt64{Int64: targetLocationID, Valid: true},
		Status:     priorStatus,
	}
}

func buildNotes(kind string, notes *string) string {
	out := "movement_kind=" + kind
	if notes != nil && strings.TrimSpace(*notes) != "" {
		out += "; " + strings.TrimSpace(*notes)
	}
	return out
}

// ListForAsset returns an asset's movement history, most recent first.
func (s *Service) ListForAsset(ctx context.Context, assetID int64, p Page) ([]TransferResponse, int64, error) {
	f := TransferFilter{AssetID: &assetID}
	return s.store.List(ctx, f, p)
}

func (s *Service) List(ctx context.Context, f TransferFilter, p Page) ([]TransferResponse, int64, error) {
	return s.store.List(ctx, f, p)
}

func (s *Service) Get(ctx context.Context, id int64) (TransferResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return TransferResponse{}, apierr.NotFound("transfer not found")
		}
		return TransferResponse{}, err
	}
	return *out, nil
}
