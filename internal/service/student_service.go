package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/listview"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
	"github.com/keraza-portal/keraza-go-api/pkg/spreadsheet"
)

var (
	// ErrStudentNotFound indicates no record exists for the given code.
	ErrStudentNotFound = errors.New("student not found")
	// ErrStudentExists indicates a record with the generated code already exists.
	ErrStudentExists = errors.New("student already exists")
)

const studentCodeFormat = "20060102150405"

// StudentService covers the record CRUD, list views and exports for one
// student collection. The pending holding area runs a second instance
// of the same service over its own repository.
type StudentService interface {
	List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error)
	Get(ctx context.Context, code string) (dto.StudentResponse, error)
	Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, code string, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, code string) error
	Promote(ctx context.Context, code string, target StudentService) (dto.StudentResponse, error)
	Adopt(ctx context.Context, student models.Student) error
	ExportExcel(ctx context.Context, req dto.StudentListRequest) ([]byte, error)
}

type studentService struct {
	repo   repository.StudentRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewStudentService constructs a student service over the given repository.
func NewStudentService(repo repository.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:   repo,
		logger: logger.With().Str("component", "student_service").Logger(),
		now:    time.Now,
	}
}

func (s *studentService) List(ctx context.Context, req dto.StudentListRequest) (dto.StudentListResponse, error) {
	students, err := s.repo.GetAll(ctx)
	if err != nil {
		return dto.StudentListResponse{}, fmt.Errorf("list students: %w", err)
	}

	students = listview.Filter(students, req.Search,
		func(st models.Student) string { return st.FullName },
		func(st models.Student) string { return st.Code },
		func(st models.Student) string { return st.PhoneNumber },
		func(st models.Student) string { return st.Level },
		func(st models.Student) string { return st.Church },
	)
	students = listview.FilterIn(students, req.Levels, func(st models.Student) string { return st.Level })
	students = listview.SortStable(students, studentSortKey(req.Sort), req.Descending)

	pageItems, page := listview.Paginate(students, req.Page, listview.DefaultPageSize)

	items := make([]dto.StudentResponse, 0, len(pageItems))
	for _, st := range pageItems {
		items = append(items, dto.NewStudentResponse(st))
	}
	return dto.StudentListResponse{Items: items, Pagination: page}, nil
}

func studentSortKey(key string) listview.Extractor[models.Student] {
	switch key {
	case "code":
		return func(st models.Student) string { return st.Code }
	case "level":
		return func(st models.Student) string { return st.Level }
	case "church":
		return func(st models.Student) string { return st.Church }
	default:
		return func(st models.Student) string { return st.FullName }
	}
}

func (s *studentService) Get(ctx context.Context, code string) (dto.StudentResponse, error) {
	student, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, fmt.Errorf("get student %s: %w", code, err)
	}
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	student := models.Student{
		Code:        s.now().UTC().Format(studentCodeFormat),
		FullName:    req.FullName,
		Gender:      req.Gender,
		Birthdate:   req.Birthdate,
		PhoneNumber: req.PhoneNumber,
		Church:      req.Church,
		Level:       req.Level,
		Address:     req.Address,
		Active:      req.Active,
		Admin:       req.Admin,
	}

	if err := s.repo.Create(ctx, &student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return dto.StudentResponse{}, ErrStudentExists
		}
		return dto.StudentResponse{}, fmt.Errorf("create student: %w", err)
	}

	s.logger.Info().Str("code", student.Code).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, code string, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	fields := make(map[string]interface{})
	if req.FullName != nil {
		fields["fullName"] = *req.FullName
	}
	if req.Gender != nil {
		fields["gender"] = *req.Gender
	}
	if req.Birthdate != nil {
		fields["birthdate"] = *req.Birthdate
	}
	if req.PhoneNumber != nil {
		fields["phoneNumber"] = *req.PhoneNumber
	}
	if req.Church != nil {
		fields["church"] = *req.Church
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if req.Admin != nil {
		fields["admin"] = *req.Admin
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, code, fields); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return dto.StudentResponse{}, ErrStudentNotFound
			}
			return dto.StudentResponse{}, fmt.Errorf("update student %s: %w", code, err)
		}
	}

	return s.Get(ctx, code)
}

func (s *studentService) Delete(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrStudentNotFound
		}
		return fmt.Errorf("delete student %s: %w", code, err)
	}

	s.logger.Info().Str("code", code).Msg("student deleted")
	return nil
}

// Promote moves a record from this collection into the target service's
// collection, keeping its code and everything on the document. Used to
// accept a pending registration into the main record set.
func (s *studentService) Promote(ctx context.Context, code string, target StudentService) (dto.StudentResponse, error) {
	student, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, fmt.Errorf("promote student %s: %w", code, err)
	}

	if err := target.Adopt(ctx, student); err != nil {
		return dto.StudentResponse{}, err
	}

	if err := s.repo.Delete(ctx, code); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		s.logger.Error().Err(err).Str("code", code).Msg("promoted record still present in source collection")
	}

	s.logger.Info().Str("code", code).Msg("student promoted")
	return dto.NewStudentResponse(student), nil
}

// Adopt inserts an existing record as-is, preserving its code.
func (s *studentService) Adopt(ctx context.Context, student models.Student) error {
	if err := s.repo.Create(ctx, &student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrStudentExists
		}
		return fmt.Errorf("adopt student %s: %w", student.Code, err)
	}
	return nil
}

var exportHeaders = []string{"Code", "Full Name", "Gender", "Birthdate", "Phone", "Church", "Level", "Address", "Active"}

// ExportExcel renders the filtered list as an xlsx workbook. The export
// covers every matching record, not just the current page.
func (s *studentService) ExportExcel(ctx context.Context, req dto.StudentListRequest) ([]byte, error) {
	students, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export students: %w", err)
	}

	students = listview.Filter(students, req.Search,
		func(st models.Student) string { return st.FullName },
		func(st models.Student) string { return st.Code },
		func(st models.Student) string { return st.PhoneNumber },
		func(st models.Student) string { return st.Level },
		func(st models.Student) string { return st.Church },
	)
	students = listview.FilterIn(students, req.Levels, func(st models.Student) string { return st.Level })
	students = listview.SortStable(students, studentSortKey(req.Sort), req.Descending)

	rows := make([][]interface{}, 0, len(students))
	for _, st := range students {
		rows = append(rows, []interface{}{
			st.Code, st.FullName, st.Gender, st.Birthdate, st.PhoneNumber, st.Church, st.Level, st.Address, st.Active,
		})
	}

	data, err := spreadsheet.Build("Students", exportHeaders, rows)
	if err != nil {
		return nil, fmt.Errorf("build export workbook: %w", err)
	}

	s.logger.Info().Int("rows", len(rows)).Msg("student export built")
	return data, nil
}
