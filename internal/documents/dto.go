package documents

import "time"

// Entity types a document can attach to.
const (
	EntityAsset   = "asset"
	EntitySection = "section"
	EntityCompany = "company"
	EntityUser    = "user"
	EntityLicense = "license"
)

func ValidEntityType(t string) bool {
	switch t {
	case EntityAsset, EntitySection, EntityCompany, EntityUser, EntityLicense:
		return true
	}
	return false
}

type DocumentResponse struct {
	DocumentID  int64     `json:"document_id"`
	EntityType  string    `json:"entity_type"`
	EntityID    int64     `json:"entity_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Private     bool      `json:"private"`
	UploadedBy  int64     `json:"uploaded_by_user_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
