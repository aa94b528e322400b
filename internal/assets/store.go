package assets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const assetColumns = `a.asset_id, a.product_name, a.serial_number, a.inventory_code, a.company_id,
	a.purchased_at, a.warranty_until, a.current_section_id, a.current_location_id, a.status, a.notes,
	a.created_at, a.updated_at`

func scanAsset(scan func(dest ...any) error) (*AssetResponse, error) {
	var r AssetResponse
	var serial, notes sql.NullString
	var company, section, location sql.NullInt64
	var purchased, warranty sql.NullTime
	if err := scan(
		&r.AssetID, &r.ProductName, &serial, &r.InventoryCode, &company,
		&purchased, &warranty, &section, &location, &r.Status, &notes,
		&r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if serial.Valid {
		v := serial.String
		r.SerialNumber = &v
	}
	if notes.Valid {
		v := notes.String
		r.Notes = &v
	}
	if company.Valid {
		v := company.Int64
		r.CompanyID = &v
	}
	if section.Valid {
		v := section.Int64
		r.SectionID = &v
	}
	if location.Valid {
		v := location.Int64
		r.LocationID = &v
	}
	if purchased.Valid {
		v := purchased.Time
		r.PurchasedAt = &v
	}
	if warranty.Valid {
		v := warranty.Time
		r.WarrantyUntil = &v
	}
	return &r, nil
}

func (s *Store) Insert(ctx context.Context, in CreateAssetRequest) (int64, error) {
	const q = `
	INSERT INTO assets
	(product_name, serial_number, inventory_code, company_id, purchased_at, warranty_until,
	 current_section_id, current_location_id, status, notes, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q,
		in.ProductName, in.SerialNumber, in.InventoryCode, in.CompanyID,
		in.PurchasedAt, in.WarrantyUntil, in.SectionID, in.LocationID, in.Status, in.Notes,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*AssetResponse, error) {
	q := `SELECT ` + assetColumns + ` FROM assets a WHERE a.asset_id = ?`
	row := s.db.QueryRowContext(ctx, q, id)
	return scanAsset(row.Scan)
}

func buildAssetFilter(sb *strings.Builder, q AssetSearchQuery, args *[]any) {
	if q.Status != nil {
		sb.WriteString(" AND a.status = ?")
		*args = append(*args, *q.Status)
	}
	if q.SectionID != nil {
		sb.WriteString(" AND a.current_section_id = ?")
		*args = append(*args, *q.SectionID)
	}
	if q.LocationID != nil {
		sb.WriteString(" AND a.current_location_id = ?")
		*args = append(*args, *q.LocationID)
	}
	if q.CompanyID != nil {
		sb.WriteString(" AND a.company_id = ?")
		*args = append(*args, *q.CompanyID)
	}
	if q.Search != nil && *q.Search != "" {
		sb.WriteString(" AND (a.product_name LIKE ? OR a.serial_number LIKE ? OR a.inventory_code LIKE ?)")
		like := "%" + *q.Search + "%"
		*args = append(*args, like, like, like)
	}
	if q.PurchasedFrom != nil {
		sb.WriteString(" AND a.purchased_at >= ?")
		*args = append(*args, *q.PurchasedFrom)
	}
	if q.PurchasedTo != nil {
		sb.WriteString(" AND a.purchased_at <= ?")
		*args = append(*args, *q.PurchasedTo)
	}
}

func (s *Store) List(ctx context.Context, q AssetSearchQuery, p Page) ([]AssetResponse, int64, error) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(`SELECT ` + assetColumns + ` FROM assets a WHERE 1=1`)
	buildAssetFilter(&sb, q, &args)

	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	sb.WriteString(" ORDER BY a.created_at " + order)

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

	list := []AssetResponse{}
	for rows.Next() {
		r, err := scanAsset(rows.Scan)
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
	cb.WriteString("SELECT COUNT(*) FROM assets a WHERE 1=1")
	buildAssetFilter(&cb, q, &countArgs)

	var total int64
	if err := s.db.QueryRowContext(ctx, cb.String(), countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateAssetRequest) error {
	sets := []string{}
	args := []any{}
	if in.ProductName != nil {
		sets = append(sets, "product_name = ?")
		args = append(args, *in.ProductName)
	}
	if in.SerialNumber != nil {
		sets = append(sets, "serial_number = ?")
		args = append(args, *in.SerialNumber)
	}
	if in.InventoryCode != nil {
		sets = append(sets, "inventory_code = ?")
		args = append(args, *in.InventoryCode)
	}
	if in.CompanyID != nil {
		sets = append(sets, "company_id = ?")
		args = append(args, *in.CompanyID)
	}
	if in.PurchasedAt != nil {
		sets = append(sets, "purchased_at = ?")
		args = append(args, *in.PurchasedAt)
	}
	if in.WarrantyUntil != nil {
		sets = append(sets, "warranty_until = ?")
		args = append(args, *in.WarrantyUntil)
	}
	if in.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *in.Notes)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = UTC_TIMESTAMP()")

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE assets SET %s WHERE asset_id = ?`, strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM assets WHERE asset_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
