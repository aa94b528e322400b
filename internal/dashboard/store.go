package dashboard

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) count(ctx context.Context, q string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, q).Scan(&n)
	return n, err
}

func (s *Store) AssetsTotal(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM assets`)
}

func (s *Store) AssetsByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (s *Store) AssetsBySection(ctx context.Context) ([]SectionCount, error) {
	const q = `
	SELECT s.section_id, s.name, COUNT(a.asset_id)
	FROM sections s
	LEFT JOIN assets a ON a.current_section_id = s.section_id
	WHERE s.deleted_at IS NULL
	GROUP BY s.section_id, s.name
	ORDER BY s.name`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []SectionCount{}
	for rows.Next() {
		var sc SectionCount
		if err := rows.Scan(&sc.SectionID, &sc.SectionName, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) SectionsTotal(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM sections WHERE deleted_at IS NULL`)
}

func (s *Store) LocationsTotal(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM locations`)
}

func (s *Store) UsersTotal(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`)
}

func (s *Store) LicensesTotal(ctx context.Context) (int64, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM software_licenses`)
}

func (s *Store) TransfersSince(ctx context.Context, days int) (int64, error) {
	const q = `SELECT COUNT(*) FROM asset_transfers WHERE transfer_date >= UTC_TIMESTAMP() - INTERVAL ? DAY`
	var n int64
	err := s.db.QueryRowContext(ctx, q, days).Scan(&n)
	return n, err
}

func (s *Store) LicensesExpiringWithin(ctx context.Context, days int) (int64, error) {
	const q = `
	SELECT COUNT(*) FROM software_licenses
	WHERE expires_at IS NOT NULL
	  AND expires_at >= UTC_TIMESTAMP()
	  AND expires_at <= UTC_TIMESTAMP() + INTERVAL ? DAY`
	var n int64
	err := s.db.QueryRowContext(ctx, q, days).Scan(&n)
	return n, err
}
