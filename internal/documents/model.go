package documents

import "time"

// document mirrors the documents table row, including the stored name the
// API never exposes. The binary on disk lives at <dir>/<StoredName>.
type document struct {
	DocumentID  int64
	EntityType  string
	EntityID    int64
	FileName    string
	StoredName  string
	ContentType string
	SizeBytes   int64
	Private     bool
	UploadedBy  int64
	UploadedAt  time.Time
}

func (d document) toDTO() DocumentResponse {
	return DocumentResponse{
		DocumentID:  d.DocumentID,
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		SizeBytes:   d.SizeBytes,
		Private:     d.Private,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt,
	}
}
