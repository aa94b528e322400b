package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"uam-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(d *sql.DB) *Store { return &Store{db: d} }

func (s *Store) InsertTx(ctx context.Context, tx db.DBTX, in CreateUserRequest, passwordHash string) (int64, error) {
	const q = `
	INSERT INTO users (national_id, first_name, last_name, email, password_hash, section_id, is_disabled, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, 0, UTC_TIMESTAMP(), UTC_TIMESTAMP())`
	res, err := tx.ExecContext(ctx, q, in.NationalID, in.FirstName, in.LastName, in.Email, passwordHash, in.SectionID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) ReplaceRolesTx(ctx context.Context, tx db.DBTX, userID int64, roleIDs []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, userID); err != nil {
		return err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES (?, ?)`, userID, roleID); err != nil {
			return err
		}
	}
	return nil
}

// ExistsTx reports whether an active user row exists, inside the caller's
// transaction.
func (s *Store) ExistsTx(ctx context.Context, tx db.DBTX, id int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM users WHERE user_id = ? AND deleted_at IS NULL`
	var n int64
	if err := tx.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*UserResponse, error) {
	const q = `
	SELECT user_id, national_id, first_name, last_name, email, section_id, is_disabled, created_at, updated_at
	FROM users WHERE user_id = ? AND deleted_at IS NULL`
	var r UserResponse
	var section sql.NullInt64
	var isDisabledInt int
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.UserID, &r.NationalID, &r.FirstName, &r.LastName, &r.Email,
		&section, &isDisabledInt, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if section.Valid {
		v := section.Int64
		r.SectionID = &v
	}
	r.IsDisabled = isDisabledInt != 0

	roles, err := s.rolesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Roles = roles
	return &r, nil
}

func (s *Store) rolesFor(ctx context.Context, userID int64) ([]string, error) {
	const q = `
	SELECT r.name FROM roles r
	JOIN user_roles ur ON ur.role_id = r.role_id
	WHERE ur.user_id = ? ORDER BY r.role_id`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

func (s *Store) List(ctx context.Context, search string, sectionID *int64) ([]UserResponse, error) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(`
	SELECT user_id, national_id, first_name, last_name, email, section_id, is_disabled, created_at, updated_at
	FROM users WHERE deleted_at IS NULL`)
	if search != "" {
		sb.WriteString(" AND (national_id LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like, like, like)
	}
	if sectionID != nil {
		sb.WriteString(" AND section_id = ?")
		args = append(args, *sectionID)
	}
	sb.WriteString(" ORDER BY last_name, first_name")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []UserResponse{}
	for rows.Next() {
		var r UserResponse
		var section sql.NullInt64
		var isDisabledInt int
		if err := rows.Scan(
			&r.UserID, &r.NationalID, &r.FirstName, &r.LastName, &r.Email,
			&section, &isDisabledInt, &r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if section.Valid {
			v := section.Int64
			r.SectionID = &v
		}
		r.IsDisabled = isDisabledInt != 0
		r.Roles = []string{}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		roles, err := s.rolesFor(ctx, list[i].UserID)
		if err != nil {
			return nil, err
		}
		list[i].Roles = roles
	}
	return list, nil
}

func (s *Store) UpdateTx(ctx context.Context, tx db.DBTX, id int64, in UpdateUserRequest, passwordHash *string) error {
	sets := []string{}
	args := []any{}
	if in.NationalID != nil {
		sets = append(sets, "national_id = ?")
		args = append(args, *in.NationalID)
	}
	if in.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *in.FirstName)
	}
	if in.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *in.LastName)
	}
	if in.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *in.Email)
	}
	if passwordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *passwordHash)
	}
	if in.SectionID != nil {
		sets = append(sets, "section_id = ?")
		args = append(args, *in.SectionID)
	}
	if in.IsDisabled != nil {
		sets = append(sets, "is_disabled = ?")
		args = append(args, boolToInt(*in.IsDisabled))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = UTC_TIMESTAMP()")

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE users SET %s WHERE user_id = ? AND deleted_at IS NULL`, strings.Join(sets, ", "))
	res, err := tx.ExecContext(ctx, q, args...)
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
	UPDATE users SET deleted_at = UTC_TIMESTAMP(), updated_at = UTC_TIMESTAMP()
	WHERE user_id = ? AND deleted_at IS NULL`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	const q = `SELECT role_id, name FROM roles ORDER BY role_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []RoleResponse{}
	for rows.Next() {
		var r RoleResponse
		if err := rows.Scan(&r.RoleID, &r.Name); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
