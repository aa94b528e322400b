package transfers

import "time"

// Movement kinds. Internal and external movements relocate the asset;
// disposal clears its placement and parks the status at disposed.
const (
	KindInternal = "internal"
	KindExternal = "external"
	KindDisposal = "disposal"
)

func ValidKind(k string) bool {
	switch k {
	case KindInternal, KindExternal, KindDisposal:
		return true
	}
	return false
}

// CreateTransferRequest is one asset movement. Sections, locations and users
// are addressed by the identifiers people actually see on the form: names and
// national ids, not surrogate keys.
type CreateTransferRequest struct {
	MovementKind           string    `json:"movement_kind" binding:"required"`
	FromSectionName        string    `json:"from_section_name" binding:"required"`
	TargetSectionName      string    `json:"target_section_name" binding:"required"`
	TargetLocationName     string    `json:"target_location_name" binding:"required"`
	AuthorizedByNationalID string    `json:"authorized_by_national_id" binding:"required"`
	ReceivedByNationalID   string    `json:"received_by_national_id" binding:"required"`
	TransferDate           time.Time `json:"transfer_date" binding:"required"`
	ReceivedDate           time.Time `json:"received_date" binding:"required"`
	Notes                  *string   `json:"notes,omitempty"`
}

type TransferResponse struct {
	TransferID       int64     `json:"transfer_id"`
	AssetID          int64     `json:"asset_id"`
	TransferDate     time.Time `json:"transfer_date"`
	FromSectionID    *int64    `json:"from_section_id,omitempty"`
	FromSectionName  *string   `json:"from_section_name,omitempty"`
	FromLocationID   *int64    `json:"from_location_id,omitempty"`
	FromLocationName *string   `json:"from_location_name,omitempty"`
	ToSectionID      *int64    `json:"to_section_id,omitempty"`
	ToSectionName    *string   `json:"to_section_name,omitempty"`
	ToLocationID     *int64    `json:"to_location_id,omitempty"`
	ToLocationName   *string   `json:"to_location_name,omitempty"`
	AuthorizedByID   int64     `json:"authorized_by_user_id"`
	AuthorizedByName string    `json:"authorized_by_name"`
	ReceivedByID     int64     `json:"received_by_user_id"`
	ReceivedByName   string    `json:"received_by_name"`
	ReceivedDate     time.Time `json:"received_date"`
	Notes            string    `json:"notes"`
}

type TransferFilter struct {
	AssetID *int64
	From    *time.Time
	To      *time.Time
	Search  *string // matches joined section/location/user names and notes
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}
