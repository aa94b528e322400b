package sections

import "time"

type CreateSectionRequest struct {
	Name            string `json:"name" binding:"required"`
	ParentSectionID *int64 `json:"parent_section_id,omitempty"`
}

type UpdateSectionRequest struct {
	Name            *string `json:"name,omitempty"`
	ParentSectionID *int64  `json:"parent_section_id,omitempty"`
}

type SectionResponse struct {
	SectionID       int64     `json:"section_id"`
	Name            string    `json:"name"`
	ParentSectionID *int64    `json:"parent_section_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
