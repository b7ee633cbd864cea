package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
)

// DegreeService reads and edits the per-term subject scores of a student.
type DegreeService interface {
	Get(ctx context.Context, code string) (dto.DegreeResponse, error)
	Update(ctx context.Context, code string, req dto.DegreeUpdateRequest) (dto.DegreeResponse, error)
}

type degreeService struct {
	repo   repository.StudentRepository
	logger zerolog.Logger
}

// NewDegreeService constructs a degree service over the main student collection.
func NewDegreeService(repo repository.StudentRepository, logger zerolog.Logger) DegreeService {
	return &degreeService{
		repo:   repo,
		logger: logger.With().Str("component", "degree_service").Logger(),
	}
}

func (s *degreeService) Get(ctx context.Context, code string) (dto.DegreeResponse, error) {
	student, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.DegreeResponse{}, ErrStudentNotFound
		}
		return dto.DegreeResponse{}, fmt.Errorf("get degrees for %s: %w", code, err)
	}

	return dto.DegreeResponse{Code: student.Code, FullName: student.FullName, Degree: student.Degree}, nil
}

// Update overwrites the addressed score leaves and recomputes each touched
// term's total. Only the edited leaves and the recomputed totals are written
// back, so concurrent edits to sibling subjects never clobber each other.
func (s *degreeService) Update(ctx context.Context, code string, req dto.DegreeUpdateRequest) (dto.DegreeResponse, error) {
	edits := make([]models.ScoreEdit, 0, len(req.Edits))
	for _, edit := range req.Edits {
		path, err := models.ParseScorePath(edit.Path)
		if err != nil {
			return dto.DegreeResponse{}, err
		}
		edits = append(edits, models.ScoreEdit{Path: path, Value: edit.Value})
	}

	student, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.DegreeResponse{}, ErrStudentNotFound
		}
		return dto.DegreeResponse{}, fmt.Errorf("load degrees for %s: %w", code, err)
	}

	next, err := student.Degree.Apply(edits)
	if err != nil {
		return dto.DegreeResponse{}, err
	}

	fields := make(map[string]interface{}, len(edits)*2)
	touched := make(map[models.Term]struct{}, len(edits))
	for _, edit := range edits {
		fields[edit.Path.Field()] = edit.Value
		touched[edit.Path.Term] = struct{}{}
	}
	for term := range touched {
		scores, err := next.TermScores(term)
		if err != nil {
			return dto.DegreeResponse{}, err
		}
		fields[term.TotalField()] = scores.Total
	}

	if err := s.repo.Update(ctx, code, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.DegreeResponse{}, ErrStudentNotFound
		}
		return dto.DegreeResponse{}, fmt.Errorf("update degrees for %s: %w", code, err)
	}

	s.logger.Info().Str("code", code).Int("edits", len(edits)).Msg("degrees updated")
	return dto.DegreeResponse{Code: student.Code, FullName: student.FullName, Degree: next}, nil
}
