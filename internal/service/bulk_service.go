package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
	"github.com/keraza-portal/keraza-go-api/pkg/spreadsheet"
)

var (
	// ErrEmptyFile indicates the uploaded workbook has no data rows.
	ErrEmptyFile = errors.New("uploaded file has no data rows")
	// ErrMissingCodeColumn indicates the workbook carries no code column.
	ErrMissingCodeColumn = errors.New("uploaded file has no code column")
	// ErrReconciliationTransport wraps store failures that abort a whole
	// reconciliation run, as opposed to per-row failures.
	ErrReconciliationTransport = errors.New("reconciliation transport failure")
)

var codeHeaders = []string{"Code", "code", "الكود"}

// BulkService reconciles uploaded spreadsheets against the student store.
// Rows are matched to records by code against a fresh snapshot of the
// store's codes, never against stale client state.
type BulkService interface {
	ReconcileProfiles(ctx context.Context, file io.Reader) (dto.ReconciliationResult, error)
	ReconcileDegrees(ctx context.Context, term models.Term, file io.Reader) (dto.ReconciliationResult, error)
	DegreeTemplate() ([]byte, error)
}

type bulkService struct {
	repo   repository.StudentRepository
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewBulkService constructs a bulk reconciliation service over the main
// student collection.
func NewBulkService(repo repository.StudentRepository, logger zerolog.Logger) BulkService {
	return &bulkService{
		repo:   repo,
		logger: logger.With().Str("component", "bulk_service").Logger(),
		tracer: otel.Tracer("bulk_service"),
	}
}

type parsedRow struct {
	code string
	row  spreadsheet.Row
}

// parseRows reads the workbook, drops rows without a code and verifies the
// code column exists at all.
func (s *bulkService) parseRows(file io.Reader) ([]parsedRow, []string, error) {
	rows, headers, err := spreadsheet.Parse(file)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyFile
	}

	hasCode := false
	for _, header := range headers {
		for _, candidate := range codeHeaders {
			if header == candidate {
				hasCode = true
			}
		}
	}
	if !hasCode {
		return nil, nil, ErrMissingCodeColumn
	}

	parsed := make([]parsedRow, 0, len(rows))
	for _, row := range rows {
		code := row.Value(codeHeaders...)
		if code == "" {
			continue
		}
		parsed = append(parsed, parsedRow{code: code, row: row})
	}
	if len(parsed) == 0 {
		return nil, nil, ErrEmptyFile
	}
	return parsed, headers, nil
}

// reconcile matches the parsed rows against the store's current codes,
// applies one patch per matched row and folds the outcome into a single
// result. Unmatched codes come first in failedCodes, in upload row order,
// followed by codes the store rejected.
func (s *bulkService) reconcile(ctx context.Context, rows []parsedRow, build func(parsedRow) map[string]interface{}) (dto.ReconciliationResult, error) {
	codes, err := s.repo.ListCodes(ctx)
	if err != nil {
		return dto.ReconciliationResult{}, fmt.Errorf("%w: %v", ErrReconciliationTransport, err)
	}

	patches := make([]repository.StudentPatch, 0, len(rows))
	unmatched := make([]string, 0)
	for _, row := range rows {
		if _, ok := codes[row.code]; !ok {
			unmatched = append(unmatched, row.code)
			continue
		}
		patches = append(patches, repository.StudentPatch{Code: row.code, Fields: build(row)})
	}

	bulk, err := s.repo.BulkUpdate(ctx, patches)
	if err != nil {
		return dto.ReconciliationResult{}, fmt.Errorf("%w: %v", ErrReconciliationTransport, err)
	}

	failed := make([]string, 0, len(unmatched)+len(bulk.Failed))
	failed = append(failed, unmatched...)
	for _, failure := range bulk.Failed {
		failed = append(failed, failure.Code)
	}

	return dto.ReconciliationResult{SuccessCount: len(bulk.Successful), FailedCodes: failed}, nil
}

// ReconcileProfiles patches profile fields from an uploaded sheet. Only
// columns present in the sheet are written; absent columns leave the stored
// values untouched.
func (s *bulkService) ReconcileProfiles(ctx context.Context, file io.Reader) (dto.ReconciliationResult, error) {
	ctx, span := s.tracer.Start(ctx, "bulk.reconcile_profiles")
	defer span.End()

	rows, _, err := s.parseRows(file)
	if err != nil {
		return dto.ReconciliationResult{}, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))

	profileColumns := []struct {
		field   string
		headers []string
	}{
		{"fullName", []string{"Full Name", "fullName", "Name"}},
		{"gender", []string{"Gender", "gender"}},
		{"birthdate", []string{"Birthdate", "birthdate"}},
		{"phoneNumber", []string{"Phone", "phoneNumber", "Phone Number"}},
		{"church", []string{"Church", "church"}},
		{"level", []string{"Level", "level"}},
		{"address", []string{"Address", "address"}},
	}

	result, err := s.reconcile(ctx, rows, func(row parsedRow) map[string]interface{} {
		fields := make(map[string]interface{})
		for _, column := range profileColumns {
			if row.row.Has(column.headers...) {
				fields[column.field] = row.row.Value(column.headers...)
			}
		}
		return fields
	})
	if err != nil {
		return dto.ReconciliationResult{}, err
	}

	s.logger.Info().Int("success", result.SuccessCount).Int("failed", len(result.FailedCodes)).Msg("profile reconciliation finished")
	return result, nil
}

var degreeColumns = []struct {
	subject models.Subject
	headers []string
}{
	{models.SubjectHymns, []string{"Hymns", "hymns"}},
	{models.SubjectAgbya, []string{"Agbya", "agbya"}},
	{models.SubjectTaks, []string{"Taks", "taks"}},
	{models.SubjectCoptic, []string{"Coptic", "coptic"}},
	{models.SubjectAttendance, []string{"Attendance", "attendance"}},
}

// ReconcileDegrees overwrites one term's subject scores from an uploaded
// sheet. Missing or malformed cells count as zero; the term total is
// recomputed from the uploaded values.
func (s *bulkService) ReconcileDegrees(ctx context.Context, term models.Term, file io.Reader) (dto.ReconciliationResult, error) {
	ctx, span := s.tracer.Start(ctx, "bulk.reconcile_degrees")
	defer span.End()

	if !term.Valid() {
		return dto.ReconciliationResult{}, fmt.Errorf("%w: %s", models.ErrInvalidTerm, term)
	}

	rows, _, err := s.parseRows(file)
	if err != nil {
		return dto.ReconciliationResult{}, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)), attribute.String("term", term.String()))

	result, err := s.reconcile(ctx, rows, func(row parsedRow) map[string]interface{} {
		fields := make(map[string]interface{}, len(degreeColumns)+1)
		total := 0.0
		for _, column := range degreeColumns {
			value := parseScore(row.row.Value(column.headers...))
			path := models.ScorePath{Term: term, Subject: column.subject}
			fields[path.Field()] = value
			total += value
		}
		fields[term.TotalField()] = total
		return fields
	})
	if err != nil {
		return dto.ReconciliationResult{}, err
	}

	s.logger.Info().Str("term", term.String()).Int("success", result.SuccessCount).Int("failed", len(result.FailedCodes)).Msg("degree reconciliation finished")
	return result, nil
}

func parseScore(cell string) float64 {
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return value
}

var degreeTemplateHeaders = []string{"Code", "Hymns", "Agbya", "Taks", "Coptic", "Attendance"}

// DegreeTemplate builds the empty sheet operators fill in for a degree
// upload.
func (s *bulkService) DegreeTemplate() ([]byte, error) {
	return spreadsheet.BuildTemplate("Degrees", degreeTemplateHeaders)
}
