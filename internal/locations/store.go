package locations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// NameExistsInSection reports whether the section already has a location with
// this name. Name uniqueness is scoped per section, not global.
func (s *Store) NameExistsInSection(ctx context.Context, name string, sectionID *int64, excludeID int64) (bool, error) {
	var q string
	args := []any{name}
	if sectionID != nil {
		q = `SELECT COUNT(*) FROM locations WHERE name = ? AND section_id = ? AND location_id <> ?`
		args = append(args, *sectionID, excludeID)
	} else {
		q = `SELECT COUNT(*) FROM locations WHERE name = ? AND section_id IS NULL AND location_id <> ?`
		args = append(args, excludeID)
	}
	var n int64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) SectionExists(ctx context.Context, sectionID int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM sections WHERE section_id = ? AND deleted_at IS NULL`
	var n int64
	if err := s.db.QueryRowContext(ctx, q, sectionID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Insert(ctx context.Context, name string, sectionID *int64) (int64, error) {
	const q = `
	INSERT INTO locations (name, section_id, created_at, updated_at)
	VALUES (?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q, name, sectionID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*LocationResponse, error) {
	const q = `
	SELECT location_id, name, section_id, created_at, updated_at
	FROM locations WHERE location_id = ?`
	var r LocationResponse
	var section sql.NullInt64
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.LocationID, &r.Name, &section, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if section.Valid {
		v := section.Int64
		r.SectionID = &v
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, sectionID *int64) ([]LocationResponse, error) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(`
	SELECT location_id, name, section_id, created_at, updated_at
	FROM locations WHERE 1=1`)
	if sectionID != nil {
		sb.WriteString(" AND section_id = ?")
		args = append(args, *sectionID)
	}
	sb.WriteString(" ORDER BY name")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []LocationResponse{}
	for rows.Next() {
		var r LocationResponse
		var section sql.NullInt64
		if err := rows.Scan(&r.LocationID, &r.Name, &section, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if section.Valid {
			v := section.Int64
			r.SectionID = &v
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateLocationRequest) error {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.SectionID != nil {
		sets = append(sets, "section_id = ?")
		args = append(args, *in.SectionID)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = UTC_TIMESTAMP()")

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE locations SET %s WHERE location_id = ?`, strings.Join(sets, ", "))
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
	const q = `DELETE FROM locations WHERE location_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
