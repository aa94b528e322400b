package assets

import "time"

// Asset lifecycle statuses. Disposal is terminal for location tracking:
// a disposed asset has no current section or location.
const (
	StatusInUse       = "in_use"
	StatusInStorage   = "in_storage"
	StatusUnderRepair = "under_repair"
	StatusDisposed    = "disposed"
	StatusLost        = "lost"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusInUse, StatusInStorage, StatusUnderRepair, StatusDisposed, StatusLost:
		return true
	}
	return false
}

type CreateAssetRequest struct {
	ProductName   string     `json:"product_name" binding:"required"`
	SerialNumber  *string    `json:"serial_number,omitempty"`
	InventoryCode string     `json:"inventory_code" binding:"required"`
	CompanyID     *int64     `json:"company_id,omitempty"`
	PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
	WarrantyUntil *time.Time `json:"warranty_until,omitempty"`
	SectionID     *int64     `json:"section_id,omitempty"`
	LocationID    *int64     `json:"location_id,omitempty"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes,omitempty"`
}

type UpdateAssetRequest struct {
	ProductName   *string    `json:"product_name,omitempty"`
	SerialNumber  *string    `json:"serial_number,omitempty"`
	InventoryCode *string    `json:"inventory_code,omitempty"`
	CompanyID     *int64     `json:"company_id,omitempty"`
	PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
	WarrantyUntil *time.Time `json:"warranty_until,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

type AssetResponse struct {
	AssetID       int64      `json:"asset_id"`
	ProductName   string     `json:"product_name"`
	SerialNumber  *string    `json:"serial_number,omitempty"`
	InventoryCode string     `json:"inventory_code"`
	CompanyID     *int64     `json:"company_id,omitempty"`
	PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
	WarrantyUntil *time.Time `json:"warranty_until,omitempty"`
	SectionID     *int64     `json:"section_id,omitempty"`
	LocationID    *int64     `json:"location_id,omitempty"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type AssetSearchQuery struct {
	Status        *string
	SectionID     *int64
	LocationID    *int64
	CompanyID     *int64
	Search        *string // matches product name, serial number, inventory code
	PurchasedFrom *time.Time
	PurchasedTo   *time.Time
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}
