package transfers

import (
	"context"
	"database/sql"
	"strings"

	"uam-backend/internal/platform/db"

	"uam-backend/internal/platform/apierr"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

// ===== resolution (inside the transfer transaction) =====

func (s *Store) GetAssetStateTx(ctx context.Context, tx db.DBTX, assetID int64) (*assetState, error) {
	const q = `
	SELECT asset_id, current_section_id, current_location_id, status
	FROM assets WHERE asset_id = ?`
	var st assetState
	if err := tx.QueryRowContext(ctx, q, assetID).Scan(
		&st.AssetID, &st.SectionID, &st.LocationID, &st.Status,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, apierr.NotFound("asset not found")
		}
		return nil, err
	}
	return &st, nil
}

func (s *Store) ResolveSectionTx(ctx context.Context, tx db.DBTX, name, label string) (int64, error) {
	const q = `SELECT section_id FROM sections WHERE name = ? AND deleted_at IS NULL`
	var id int64
	if err := tx.QueryRowContext(ctx, q, name).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, apierr.NotFound(label + " section not found: " + name)
		}
		return 0, err
	}
	return id, nil
}

// ResolveLocationTx looks the location up scoped to the target section.
// A same-named location in another section does not match.
func (s *Store) ResolveLocationTx(ctx context.Context, tx db.DBTX, name string, sectionID int64) (int64, error) {
	const q = `SELECT location_id FROM locations WHERE name = ? AND section_id = ?`
	var id int64
	if err := tx.QueryRowContext(ctx, q, name, sectionID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, apierr.NotFound("location not found in target section: " + name)
		}
		return 0, err
	}
	return id, nil
}

func (s *Store) ResolveUserByNationalIDTx(ctx context.Context, tx db.DBTX, nationalID, label string) (int64, error) {
	const q = `SELECT user_id FROM users WHERE national_id = ? AND deleted_at IS NULL`
	var id int64
	if err := tx.QueryRowContext(ctx, q, nationalID).Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return 0, apierr.NotFound(label + " user not found: " + nationalID)
		}
		return 0, err
	}
	return id, nil
}

// ===== mutation (inside the transfer transaction) =====

func (s *Store) UpdateAssetPlacementTx(ctx context.Context, tx db.DBTX, assetID int64, p newPlacement) error {
	const q = `
	UPDATE assets
	SET current_section_id = ?, current_location_id = ?, status = ?, updated_at = UTC_TIMESTAMP()
	WHERE asset_id = ?`
	_, err := tx.ExecContext(ctx, q, p.SectionID, p.LocationID, p.Status, assetID)
	return err
}

func (s *Store) InsertTransferTx(ctx context.Context, tx db.DBTX, rec transferRecord) (int64, error) {
	const q = `
	INSERT INTO asset_transfers
	(asset_id, transfer_date, from_section_id, from_location_id, to_section_id, to_location_id,
	 authorized_by_user_id, received_by_user_id, received_date, notes, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	res, err := tx.ExecContext(ctx, q,
		rec.AssetID, rec.TransferDate, rec.FromSectionID, rec.FromLocationID,
		rec.ToSectionID, rec.ToLocationID, rec.AuthorizedByID, rec.ReceivedByID,
		rec.ReceivedDate, rec.Notes,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ===== read paths =====

const transferColumns = `t.transfer_id, t.asset_id, t.transfer_date,
	t.from_section_id, fs.name, t.from_location_id, fl.name,
	t.to_section_id, ts.name, t.to_location_id, tl.name,
	t.authorized_by_user_id, CONCAT(au.first_name, ' ', au.last_name),
	t.received_by_user_id, CONCAT(ru.first_name, ' ', ru.last_name),
	t.received_date, t.notes`

const transferJoins = `
	FROM asset_transfers t
	LEFT JOIN sections fs ON fs.section_id = t.from_section_id
	LEFT JOIN locations fl ON fl.location_id = t.from_location_id
	LEFT JOIN sections ts ON ts.section_id = t.to_section_id
	LEFT JOIN locations tl ON tl.location_id = t.to_location_id
	JOIN users au ON au.user_id = t.authorized_by_user_id
	JOIN users ru ON ru.user_id = t.received_by_user_id`

func scanTransfer(scan func(dest ...any) error) (*TransferResponse, error) {
	var r TransferResponse
	var fromSection, fromLocation, toSection, toLocation sql.NullInt64
	var fromSectionName, fromLocationName, toSectionName, toLocationName sql.NullString
	var notes sql.NullString
	if err := scan(
		&r.TransferID, &r.AssetID, &r.TransferDate,
		&fromSection, &fromSectionName, &fromLocation, &fromLocationName,
		&toSection, &toSectionName, &toLocation, &toLocationName,
		&r.AuthorizedByID, &r.AuthorizedByName,
		&r.ReceivedByID, &r.ReceivedByName,
		&r.ReceivedDate, &notes,
	); err != nil {
		return nil, err
	}
	setNullID := func(dst **int64, v sql.NullInt64) {
		if v.Valid {
			id := v.Int64
			*dst = &id
		}
	}
	setNullName := func(dst **string, v sql.NullString) {
		if v.Valid {
			name := v.String
			*dst = &name
		}
	}
	setNullID(&r.FromSectionID, fromSection)
	setNullName(&r.FromSectionName, fromSectionName)
	setNullID(&r.FromLocationID, fromLocation)
	setNullName(&r.FromLocationName, fromLocationName)
	setNullID(&r.ToSectionID, toSection)
	setNullName(&r.ToSectionName, toSectionName)
	setNullID(&r.ToLocationID, toLocation)
	setNullName(&r.ToLocationName, toLocationName)
	r.Notes = notes.String
	return &r, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*TransferResponse, error) {
	q := `SELECT ` + transferColumns + transferJoins + ` WHERE t.transfer_id = ?`
	row := s.db.QueryRowContext(ctx, q, id)
	return scanTransfer(row.Scan)
}

func buildTransferFilter(sb *strings.Builder, f TransferFilter, args *[]any) {
	if f.AssetID != nil {
		sb.WriteString(" AND t.asset_id = ?")
		*args = append(*args, *f.AssetID)
	}
	if f.From != nil {
		sb.WriteString(" AND t.transfer_date >= ?")
		*args = append(*args, *f.From)
	}
	if f.To != nil {
		sb.WriteString(" AND t.transfer_date <= ?")
		*args = append(*args, *f.To)
	}
	if f.Search != nil && *f.Search != "" {
		sb.WriteString(` AND (fs.name LIKE ? OR fl.name LIKE ? OR ts.name LIKE ? OR tl.name LIKE ?
			OR au.first_name LIKE ? OR au.last_name LIKE ?
			OR ru.first_name LIKE ? OR ru.last_name LIKE ? OR t.notes LIKE ?)`)
		like := "%" + *f.Search + "%"
		for i := 0; i < 9; i++ {
			*args = append(*args, like)
		}
	}
}

// List returns the movement history, most recent first unless asked otherwise.
func (s *Store) List(ctx context.Context, f TransferFilter, p Page) ([]TransferResponse, int64, error) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(`SELECT ` + transferColumns + transferJoins + ` WHERE 1=1`)
	buildTransferFilter(&sb, f, &args)

	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	sb.WriteString(" ORDER BY t.transfer_date " + order + ", t.transfer_id " + order)

	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []TransferResponse{}
	for rows.Next() {
		r, err := scanTransfer(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var cb strings.Builder
	countArgs := []any{}
	cb.WriteString(`SELECT COUNT(*)` + transferJoins + ` WHERE 1=1`)
	buildTransferFilter(&cb, f, &countArgs)

	var total int64
	if err := s.db.QueryRowContext(ctx, cb.String(), countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}
