package companies

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, in CreateCompanyRequest) (int64, error) {
	const q = `
	INSERT INTO companies (name, tax_id, email, phone, address, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q, in.Name, in.TaxID, in.Email, in.Phone, in.Address)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*CompanyResponse, error) {
	const q = `
	SELECT company_id, name, tax_id, email, phone, address, created_at, updated_at
	FROM companies WHERE company_id = ?`
	var r CompanyResponse
	var email, phone, address sql.NullString
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.CompanyID, &r.Name, &r.TaxID, &email, &phone, &address, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if email.Valid {
		v := email.String
		r.Email = &v
	}
	if phone.Valid {
		v := phone.String
		r.Phone = &v
	}
	if address.Valid {
		v := address.String
		r.Address = &v
	}
	return &r, nil
}

func (s *Store) List(ctx context.Context, search string) ([]CompanyResponse, error) {
	var sb strings.Builder
	args := []any{}
	sb.WriteString(`
	SELECT company_id, name, tax_id, email, phone, address, created_at, updated_at
	FROM companies WHERE 1=1`)
	if search != "" {
		sb.WriteString(" AND (name LIKE ? OR tax_id LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	sb.WriteString(" ORDER BY name")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []CompanyResponse{}
	for rows.Next() {
		var r CompanyResponse
		var email, phone, address sql.NullString
		if err := rows.Scan(&r.CompanyID, &r.Name, &r.TaxID, &email, &phone, &address, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		if email.Valid {
			v := email.String
			r.Email = &v
		}
		if phone.Valid {
			v := phone.String
			r.Phone = &v
		}
		if address.Valid {
			v := address.String
			r.Address = &v
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func (s *Store) Update(ctx context.Context, id int64, in UpdateCompanyRequest) error {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.TaxID != nil {
		sets = append(sets, "tax_id = ?")
		args = append(args, *in.TaxID)
	}
	if in.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *in.Email)
	}
	if in.Phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, *in.Phone)
	}
	if in.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, *in.Address)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = UTC_TIMESTAMP()")

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE companies SET %s WHERE company_id = ?`, strings.Join(sets, ", "))
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
	const q = `DELETE FROM companies WHERE company_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
