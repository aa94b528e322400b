package licenses

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, in CreateLicenseRequest) (int64, error) {
	const q = `
	INSERT INTO software_licenses (name, vendor, license_key, seats, expires_at, notes, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q, in.Name, in.Vendor, in.LicenseKey, in.Seats, in.ExpiresAt, in.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*LicenseResponse, error) {
	const q = `
	SELECT l.license_id, l.name, l.vendor, l.license_key, l.seats,
		(SELECT COUNT(*) FROM asset_software_license_assignments a WHERE a.license_id = l.license_id),
		l.expires_at, l.notes, l.created_at, l.updated_at
	FROM software_licenses l WHERE l.license_id = ?`
	var r LicenseResponse
	var key, notes sql.NullString
	var expires sql.NullTime
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.LicenseID, &r.Name, &r.Vendor, &key, &r.Seats, &r.SeatsAssigned,
		&expires, &notes, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if key.Valid {
		v := key.String
		r.LicenseKey = &v
	}
	if notes.Valid {
		v := notes.String
		r.Notes = &v
	}
	if expires.Valid {
		v := expires.Time
		r.ExpiresAt = &v
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, search string) ([]LicenseResponse, error) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(`
	SELECT l.license_id, l.name, l.vendor, l.license_key, l.seats,
		(SELECT COUNT(*) FROM asset_software_license_assignments a WHERE a.license_id = l.license_id),
		l.expires_at, l.notes, l.created_at, l.updated_at
	FROM software_licenses l WHERE 1=1`)
	if search != "" {
		sb.WriteString(" AND (l.name LIKE ? OR l.vendor LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	sb.WriteString(" ORDER BY l.name")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []LicenseResponse{}
	for rows.Next() {
		var r LicenseResponse
		var key, notes sql.NullString
		var expires sql.NullTime
		if err := rows.Scan(
			&r.LicenseID, &r.Name, &r.Vendor, &key, &r.Seats, &r.SeatsAssigned,
			&expires, &notes, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if key.Valid {
			v := key.String
			r.LicenseKey = &v
		}
		if notes.Valid {
			v := notes.String
			r.Notes = &v
		}
		if expires.Valid {
			v := expires.Time
			r.ExpiresAt = &v
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateLicenseRequest) error {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Vendor != nil {
		sets = append(sets, "vendor = ?")
		args = append(args, *in.Vendor)
	}
	if in.LicenseKey != nil {
		sets = append(sets, "license_key = ?")
		args = append(args, *in.LicenseKey)
	}
	if in.Seats != nil {
		sets = append(sets, "seats = ?")
		args = append(args, *in.Seats)
	}
	if in.ExpiresAt != nil {
		sets = append(sets, "expires_at = ?")
		args = append(args, *in.ExpiresAt)
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
	q := fmt.Sprintf(`UPDATE software_licenses SET %s WHERE license_id = ?`, strings.Join(sets, ", "))
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
	const q = `DELETE FROM software_licenses WHERE license_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ===== assignments =====

// LockLicenseRow reads seats under FOR UPDATE so concurrent assignments
// cannot both pass the seat check.
func (s *Store) LockLicenseRow(ctx context.Context, tx *sql.Tx, licenseID int64) (seats int, err error) {
	const q = `SELECT seats FROM software_licenses WHERE license_id = ? FOR UPDATE`
	if err = tx.QueryRowContext(ctx, q, licenseID).Scan(&seats); err != nil {
		return 0, err
	}
	return seats, nil
}

func (s *Store) CountAssignmentsTx(ctx context.Context, tx *sql.Tx, licenseID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM asset_software_license_assignments WHERE license_id = ?`
	var n int
	if err := tx.QueryRowContext(ctx, q, licenseID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) InsertAssignmentTx(ctx context.Context, tx *sql.Tx, licenseID, assetID int64) (int64, error) {
	const q = `
	INSERT INTO asset_software_license_assignments (license_id, asset_id, assigned_at)
	VALUES (?, ?, UTC_TIMESTAMP())`
	res, err := tx.ExecContext(ctx, q, licenseID, assetID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetAssignment(ctx context.Context, id int64) (*AssignmentResponse, error) {
	const q = `
	SELECT assignment_id, license_id, asset_id, assigned_at
	FROM asset_software_license_assignments WHERE assignment_id = ?`
	var r AssignmentResponse
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.AssignmentID, &r.LicenseID, &r.AssetID, &r.AssignedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListAssignments(ctx context.Context, licenseID int64) ([]AssignmentResponse, error) {
	const q = `
	SELECT assignment_id, license_id, asset_id, assigned_at
	FROM asset_software_license_assignments WHERE license_id = ? ORDER BY assigned_at DESC`
	rows, err := s.db.QueryContext(ctx, q, licenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []AssignmentResponse{}
	for rows.Next() {
		var r AssignmentResponse
		if err := rows.Scan(&r.AssignmentID, &r.LicenseID, &r.AssetID, &r.AssignedAt); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *Store) DeleteAssignment(ctx context.Context, licenseID, assignmentID int64) error {
	const q = `DELETE FROM asset_software_license_assignments WHERE assignment_id = ? AND license_id = ?`
	res, err := s.db.ExecContext(ctx, q, assignmentID, licenseID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
