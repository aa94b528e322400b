package users

import "time"

type CreateUserRequest struct {
	NationalID string  `json:"national_id" binding:"required"`
	FirstName  string  `json:"first_name" binding:"required"`
	LastName   string  `json:"last_name" binding:"required"`
	Email      string  `json:"email" binding:"required"`
	Password   string  `json:"password" binding:"required"`
	SectionID  *int64  `json:"section_id,omitempty"`
	Roles      []int64 `json:"roles,omitempty"`
}

type UpdateUserRequest struct {
	NationalID *string  `json:"national_id,omitempty"`
	FirstName  *string  `json:"first_name,omitempty"`
	LastName   *string  `json:"last_name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Password   *string  `json:"password,omitempty"`
	SectionID  *int64   `json:"section_id,omitempty"`
	IsDisabled *bool    `json:"is_disabled,omitempty"`
	Roles      *[]int64 `json:"roles,omitempty"`
}

type UserResponse struct {
	UserID     int64     `json:"user_id"`
	NationalID string    `json:"national_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	SectionID  *int64    `json:"section_id,omitempty"`
	IsDisabled bool      `json:"is_disabled"`
	Roles      []string  `json:"roles"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RoleResponse struct {
	RoleID int64  `json:"role_id"`
	Name   string `json:"name"`
}
