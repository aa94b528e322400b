package licenses

import "time"

type CreateLicenseRequest struct {
	Name       string     `json:"name" binding:"required"`
	Vendor     string     `json:"vendor" binding:"required"`
	LicenseKey *string    `json:"license_key,omitempty"`
	Seats      int        `json:"seats" binding:"required"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

type UpdateLicenseRequest struct {
	Name       *string    `json:"name,omitempty"`
	Vendor     *string    `json:"vendor,omitempty"`
	LicenseKey *string    `json:"license_key,omitempty"`
	Seats      *int       `json:"seats,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

type LicenseResponse struct {
	LicenseID     int64      `json:"license_id"`
	Name          string     `json:"name"`
	Vendor        string     `json:"vendor"`
	LicenseKey    *string    `json:"license_key,omitempty"`
	Seats         int        `json:"seats"`
	SeatsAssigned int        `json:"seats_assigned"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type AssignRequest struct {
	AssetID int64 `json:"asset_id" binding:"required"`
}

type AssignmentResponse struct {
	AssignmentID int64     `json:"assignment_id"`
	LicenseID    int64     `json:"license_id"`
	AssetID      int64     `json:"asset_id"`
	AssignedAt   time.Time `json:"assigned_at"`
}
