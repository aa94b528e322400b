package documents

import (
	"context"
	"database/sql"
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, d *document) (int64, error) {
	const q = `
	INSERT INTO documents
	(entity_type, entity_id, file_name, stored_name, content_type, size_bytes, private, uploaded_by_user_id, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q,
		d.EntityType, d.EntityID, d.FileName, d.StoredName, d.ContentType,
		d.SizeBytes, boolToInt(d.Private), d.UploadedBy,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*document, error) {
	const q = `
	SELECT document_id, entity_type, entity_id, file_name, stored_name, content_type,
		size_bytes, private, uploaded_by_user_id, uploaded_at
	FROM documents WHERE document_id = ?`
	var d document
	var privateInt int
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&d.DocumentID, &d.EntityType, &d.EntityID, &d.FileName, &d.StoredName,
		&d.ContentType, &d.SizeBytes, &privateInt, &d.UploadedBy, &d.UploadedAt,
	); err != nil {
		return nil, err
	}
	d.Private = privateInt != 0
	return &d, nil
}

func (s *Store) ListForEntity(ctx context.Context, entityType string, entityID int64) ([]document, error) {
	const q = `
	SELECT document_id, entity_type, entity_id, file_name, stored_name, content_type,
		size_bytes, private, uploaded_by_user_id, uploaded_at
	FROM documents WHERE entity_type = ? AND entity_id = ?
	ORDER BY uploaded_at DESC`
	rows, err := s.db.QueryContext(ctx, q, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []document{}
	for rows.Next() {
		var d document
		var privateInt int
		if err := rows.Scan(
			&d.DocumentID, &d.EntityType, &d.EntityID, &d.FileName, &d.StoredName,
			&d.ContentType, &d.SizeBytes, &privateInt, &d.UploadedBy, &d.UploadedAt,
		); err != nil {
			return nil, err
		}
		d.Private = privateInt != 0
		list = append(list, d)
	}
	return list, rows.Err()
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE document_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
