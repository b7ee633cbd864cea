package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
	"github.com/keraza-portal/keraza-go-api/pkg/idcard"
)

// IDCardService renders printable identification cards for students.
type IDCardService interface {
	Render(ctx context.Context, code string, opts dto.IDCardOptions) ([]byte, error)
	Archive(ctx context.Context, req dto.BulkIDCardRequest) ([]byte, []string, error)
}

type idCardService struct {
	repo   repository.StudentRepository
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewIDCardService constructs an ID card service over the main student
// collection.
func NewIDCardService(repo repository.StudentRepository, logger zerolog.Logger) IDCardService {
	return &idCardService{
		repo:   repo,
		logger: logger.With().Str("component", "idcard_service").Logger(),
		tracer: otel.Tracer("idcard_service"),
	}
}

func buildCard(student models.Student, opts dto.IDCardOptions) idcard.Card {
	location := opts.Location
	if location == "" {
		location = student.Church
	}
	return idcard.Card{
		Code:     student.Code,
		FullName: student.FullName,
		Level:    student.Level,
		Church:   student.Church,
		Time:     opts.Time,
		Saint:    opts.Saint,
		Location: location,
	}
}

// Render draws one student's card as a PNG.
func (s *idCardService) Render(ctx context.Context, code string, opts dto.IDCardOptions) ([]byte, error) {
	student, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("load student %s: %w", code, err)
	}

	png, err := idcard.Render(buildCard(student, opts))
	if err != nil {
		return nil, fmt.Errorf("render card for %s: %w", code, err)
	}
	return png, nil
}

// Archive renders one card per requested code into a zip. Codes with no
// matching record are skipped and reported back rather than failing the
// whole batch.
func (s *idCardService) Archive(ctx context.Context, req dto.BulkIDCardRequest) ([]byte, []string, error) {
	ctx, span := s.tracer.Start(ctx, "idcard.archive")
	defer span.End()
	span.SetAttributes(attribute.Int("requested", len(req.Codes)))

	opts := dto.IDCardOptions{Time: req.Time, Saint: req.Saint, Location: req.Location}

	cards := make([]idcard.Card, 0, len(req.Codes))
	missing := make([]string, 0)
	for _, code := range req.Codes {
		student, err := s.repo.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				missing = append(missing, code)
				continue
			}
			return nil, nil, fmt.Errorf("load student %s: %w", code, err)
		}
		cards = append(cards, buildCard(student, opts))
	}

	if len(cards) == 0 {
		return nil, missing, ErrStudentNotFound
	}

	archive, err := idcard.Archive(cards)
	if err != nil {
		return nil, nil, fmt.Errorf("build card archive: %w", err)
	}

	s.logger.Info().Int("rendered", len(cards)).Int("missing", len(missing)).Msg("card archive built")
	return archive, missing, nil
}
