package dto

import (
	"time"

	"github.com/keraza-portal/keraza-go-api/internal/models"
)

// ContentCreateRequest captures a new reference document (Agbya, Taks,
// Coptic or Hymns lesson).
type ContentCreateRequest struct {
	Title               string `json:"title" validate:"required,min=1"`
	ArabicContent       string `json:"arabicContent" validate:"omitempty"`
	CopticContent       string `json:"copticContent" validate:"omitempty"`
	CopticArabicContent string `json:"copticArabicContent" validate:"omitempty"`
	Term                int    `json:"term" validate:"required,gte=1,lte=3"`
	YearNumber          int    `json:"yearNumber" validate:"required,gte=1"`
	AgeLevel            []int  `json:"ageLevel" validate:"omitempty,dive,gte=0,lte=30"`
	Audio               string `json:"audio" validate:"omitempty"`
}

// ContentUpdateRequest patches a reference document. Nil fields stay as-is.
type ContentUpdateRequest struct {
	Title               *string `json:"title" validate:"omitempty,min=1"`
	ArabicContent       *string `json:"arabicContent"`
	CopticContent       *string `json:"copticContent"`
	CopticArabicContent *string `json:"copticArabicContent"`
	Term                *int    `json:"term" validate:"omitempty,gte=1,lte=3"`
	YearNumber          *int    `json:"yearNumber" validate:"omitempty,gte=1"`
	AgeLevel            []int   `json:"ageLevel" validate:"omitempty,dive,gte=0,lte=30"`
	Audio               *string `json:"audio"`
}

// ContentResponse serializes a reference document.
type ContentResponse struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	ArabicContent       string    `json:"arabicContent,omitempty"`
	CopticContent       string    `json:"copticContent,omitempty"`
	CopticArabicContent string    `json:"copticArabicContent,omitempty"`
	Term                int       `json:"term"`
	YearNumber          int       `json:"yearNumber"`
	AgeLevel            []int     `json:"ageLevel,omitempty"`
	Audio               string    `json:"audio,omitempty"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
	UpdatedAt           time.Time `json:"updated_at,omitempty"`
}

// NewContentResponse converts a content document into its DTO.
func NewContentResponse(doc models.ContentDocument) ContentResponse {
	return ContentResponse{
		ID:                  doc.ID,
		Title:               doc.Title,
		ArabicContent:       doc.ArabicContent,
		CopticContent:       doc.CopticContent,
		CopticArabicContent: doc.CopticArabicContent,
		Term:                doc.Term,
		YearNumber:          doc.YearNumber,
		AgeLevel:            doc.AgeLevel,
		Audio:               doc.Audio,
		CreatedAt:           doc.CreatedAt,
		UpdatedAt:           doc.UpdatedAt,
	}
}
