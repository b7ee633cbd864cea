package dto

import (
	"time"

	"github.com/keraza-portal/keraza-go-api/internal/listview"
	"github.com/keraza-portal/keraza-go-api/internal/models"
)

// StudentListRequest defines the list-view query: free-text search, level
// multi-select, single sort key with direction and the requested page.
type StudentListRequest struct {
	Page       int
	Search     string
	Levels     []string
	Sort       string
	Descending bool
}

// StudentResponse serializes a student record for the portal.
type StudentResponse struct {
	Code        string        `json:"code"`
	FullName    string        `json:"fullName"`
	Gender      string        `json:"gender,omitempty"`
	Birthdate   string        `json:"birthdate,omitempty"`
	PhoneNumber string        `json:"phoneNumber,omitempty"`
	Church      string        `json:"church,omitempty"`
	Level       string        `json:"level,omitempty"`
	Address     string        `json:"address,omitempty"`
	Active      bool          `json:"active"`
	Admin       bool          `json:"admin"`
	Degree      models.Degree `json:"degree"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
	UpdatedAt   time.Time     `json:"updated_at,omitempty"`
}

// StudentListResponse wraps a paginated student page.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination listview.Page     `json:"pagination"`
}

// StudentCreateRequest captures the new-student form. The code is never
// accepted from the client; the server assigns it.
type StudentCreateRequest struct {
	FullName    string `json:"fullName" validate:"required,min=1"`
	Gender      string `json:"gender" validate:"omitempty,oneof=Male Female"`
	Birthdate   string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,min=5,max=20"`
	Church      string `json:"church" validate:"omitempty,min=1"`
	Level       string `json:"level" validate:"omitempty,min=1"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	Active      bool   `json:"active"`
	Admin       bool   `json:"admin"`
}

// StudentUpdateRequest patches profile fields. Nil fields stay untouched.
type StudentUpdateRequest struct {
	FullName    *string `json:"fullName" validate:"omitempty,min=1"`
	Gender      *string `json:"gender" validate:"omitempty,oneof=Male Female"`
	Birthdate   *string `json:"birthdate" validate:"omitempty,datetime=2006-01-02"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,min=5,max=20"`
	Church      *string `json:"church" validate:"omitempty,min=1"`
	Level       *string `json:"level" validate:"omitempty,min=1"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
	Admin       *bool   `json:"admin"`
}

// NewStudentResponse converts a student model into its DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		Code:        student.Code,
		FullName:    student.FullName,
		Gender:      student.Gender,
		Birthdate:   student.Birthdate,
		PhoneNumber: student.PhoneNumber,
		Church:      student.Church,
		Level:       student.Level,
		Address:     student.Address,
		Active:      student.Active,
		Admin:       student.Admin,
		Degree:      student.Degree,
		CreatedAt:   student.CreatedAt,
		UpdatedAt:   student.UpdatedAt,
	}
}
