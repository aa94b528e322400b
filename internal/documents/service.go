package documents

import (
	"context"
	"crypto/rand"
	"database/sql"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"uam-backend/internal/platform/apierr"
)

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

type Service struct {
	db    *sql.DB
	store *Store
	dir   string
	id    IDGen
}

func NewService(db *sql.DB, dir string) *Service {
	return &Service{db: db, store: NewStore(db), dir: dir, id: ulidGen{}}
}

// Upload stores the binary under a ULID-derived name and inserts the metadata
// row. The original file name is metadata only; it never touches the disk
// path, so path traversal through file names is not possible.
func (s *Service) Upload(ctx context.Context, entityType string, entityID int64, private bool, callerID int64, fh *multipart.FileHeader) (DocumentResponse, error) {
	entityType = strings.ToLower(strings.TrimSpace(entityType))
	if !ValidEntityType(entityType) {
		return DocumentResponse{}, apierr.Invalid("invalid entity_type")
	}
	if entityID <= 0 {
		return DocumentResponse{}, apierr.Invalid("entity_id is required")
	}
	if fh == nil || fh.Size == 0 {
		return DocumentResponse{}, apierr.Invalid("file is required")
	}

	storedName := s.id.NewULID(time.Now().UTC())
	if ext := filepath.Ext(fh.Filename); ext != "" {
		storedName += strings.ToLower(ext)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return DocumentResponse{}, err
	}
	dst := filepath.Join(s.dir, storedName)

	src, err := fh.Open()
	if err != nil {
		return DocumentResponse{}, err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return DocumentResponse{}, err
	}
	written, err := io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return DocumentResponse{}, err
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	d := &document{
		EntityType:  entityType,
		EntityID:    entityID,
		FileName:    filepath.Base(fh.Filename),
		StoredName:  storedName,
		ContentType: contentType,
		SizeBytes:   written,
		Private:     private,
		UploadedBy:  callerID,
	}
	id, err := s.store.Insert(ctx, d)
	if err != nil {
		// Keep disk and table consistent when the insert fails.
		_ = os.Remove(dst)
		return DocumentResponse{}, err
	}

	logrus.WithFields(logrus.Fields{
		"document_id": id,
		"entity_type": entityType,
		"entity_id":   entityID,
		"size_bytes":  written,
	}).Info("document uploaded")

	stored, err := s.store.GetByID(ctx, id)
	if err != nil {
		return DocumentResponse{}, err
	}
	return stored.toDTO(), nil
}

func (s *Service) List(ctx context.Context, entityType string, entityID int64) ([]DocumentResponse, error) {
	entityType = strings.ToLower(strings.TrimSpace(entityType))
	if !ValidEntityType(entityType) {
		return nil, apierr.Invalid("invalid entity_type")
	}
	docs, err := s.store.ListForEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDTO())
	}
	return out, nil
}

// PathForDownload re-derives the on-disk path from metadata and enforces the
// access predicate: private documents are only served to admins and the
// uploader.
func (s *Service) PathForDownload(ctx context.Context, id, callerID int64, callerRole string) (path, fileName, contentType string, err error) {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", "", "", apierr.NotFound("document not found")
		}
		return "", "", "", err
	}

	if d.Private && callerRole != "admin" && d.UploadedBy != callerID {
		return "", "", "", apierr.Forbidden("document is private")
	}

	return filepath.Join(s.dir, d.StoredName), d.FileName, d.ContentType, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID int64, callerRole string) error {
	d, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("document not found")
		}
		return err
	}
	if callerRole != "admin" && d.UploadedBy != callerID {
		return apierr.Forbidden("only the uploader or an admin can delete a document")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return apierr.NotFound("document not found")
		}
		return err
	}
	// Row first, then the file; a leftover binary without metadata is
	// harmless, the reverse would 404 on download.
	if err := os.Remove(filepath.Join(s.dir, d.StoredName)); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("document_id", id).Warn("failed to remove stored file")
	}
	return nil
}
