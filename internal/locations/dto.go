package locations

import "time"

type CreateLocationRequest struct {
	Name      string `json:"name" binding:"required"`
	SectionID *int64 `json:"section_id,omitempty"`
}

type UpdateLocationRequest struct {
	Name      *string `json:"name,omitempty"`
	SectionID *int64  `json:"section_id,omitempty"`
}

type LocationResponse struct {
	LocationID int64     `json:"location_id"`
	Name       string    `json:"name"`
	SectionID  *int64    `json:"section_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
