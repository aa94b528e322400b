package sections

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// NameExists reports whether an active (not soft-deleted) section already
// uses the name. excludeID skips the row being updated; pass 0 on create.
func (s *Store) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	const q = `
	SELECT COUNT(*) FROM sections
	WHERE name = ? AND deleted_at IS NULL AND section_id <> ?`
	var n int64
	if err := s.db.QueryRowContext(ctx, q, name, excludeID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Insert(ctx context.Context, name string, parentID *int64) (int64, error) {
	const q = `
	INSERT INTO sections (name, parent_section_id, created_at, updated_at)
	VALUES (?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q, name, parentID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*SectionResponse, error) {
	const q = `
	SELECT section_id, name, parent_section_id, created_at, updated_at
	FROM sections WHERE section_id = ? AND deleted_at IS NULL`
	var r SectionResponse
	var parent sql.NullInt64
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.SectionID, &r.Name, &parent, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if parent.Valid {
		v := parent.Int64
		r.ParentSectionID = &v
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context) ([]SectionResponse, error) {
	const q = `
	SELECT section_id, name, parent_section_id, created_at, updated_at
	FROM sections WHERE deleted_at IS NULL ORDER BY name`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []SectionResponse{}
	for rows.Next() {
		var r SectionResponse
		var parent sql.NullInt64
		if err := rows.Scan(&r.SectionID, &r.Name, &parent, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if parent.Valid {
			v := parent.Int64
			r.ParentSectionID = &v
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateSectionRequest) error {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.ParentSectionID != nil {
		sets = append(sets, "parent_section_id = ?")
		args = append(args, *in.ParentSectionID)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = UTC_TIMESTAMP()")

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE sections SET %s WHERE section_id = ? AND deleted_at IS NULL`, strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) SoftDelete(ctx context.Context, id int64) error {
	const q = `
	UPDATE sections SET deleted_at = UTC_TIMESTAMP(), updated_at = UTC_TIMESTAMP()
	WHERE section_id = ? AND deleted_at IS NULL`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
