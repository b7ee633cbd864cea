package dto

import "github.com/keraza-portal/keraza-go-api/internal/models"

// ScoreEditRequest overwrites one subject leaf addressed by its dotted path,
// e.g. "degree.secondTerm.coptic".
type ScoreEditRequest struct {
	Path  string  `json:"path" validate:"required"`
	Value float64 `json:"value" validate:"gte=0"`
}

// DegreeUpdateRequest applies a batch of leaf edits to one student's degrees.
type DegreeUpdateRequest struct {
	Edits []ScoreEditRequest `json:"edits" validate:"required,min=1,dive"`
}

// DegreeResponse returns a student's full degree structure.
type DegreeResponse struct {
	Code     string        `json:"code"`
	FullName string        `json:"fullName"`
	Degree   models.Degree `json:"degree"`
}
