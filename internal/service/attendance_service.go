package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/listview"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
	"github.com/keraza-portal/keraza-go-api/pkg/spreadsheet"
)

// AttendanceService builds the per-level attendance report. The raw level
// snapshot is cached in Redis so repeated report views during a class
// session do not hammer the store.
type AttendanceService interface {
	Report(ctx context.Context, req dto.AttendanceListRequest) (dto.AttendanceReportResponse, error)
	ExportExcel(ctx context.Context, req dto.AttendanceListRequest) ([]byte, error)
}

type attendanceService struct {
	repo     repository.StudentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAttendanceService constructs an attendance report service. cache may be
// nil, in which case every report reads the store directly.
func NewAttendanceService(repo repository.StudentRepository, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "attendance_service").Logger(),
		now:      time.Now,
	}
}

func attendanceCacheKey(level string) string {
	if level == "" {
		level = "all"
	}
	return "attendance:report:" + level
}

func (s *attendanceService) snapshot(ctx context.Context, level string) ([]models.Student, error) {
	key := attendanceCacheKey(level)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var students []models.Student
			if err := json.Unmarshal(cached, &students); err == nil {
				return students, nil
			}
			s.logger.Warn().Str("key", key).Msg("discarding undecodable attendance cache entry")
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("attendance cache read failed")
		}
	}

	students, err := s.repo.ListByLevel(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("load attendance snapshot: %w", err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(students); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Str("key", key).Msg("attendance cache write failed")
			}
		}
	}

	return students, nil
}

func (s *attendanceService) rows(ctx context.Context, req dto.AttendanceListRequest) ([]models.Student, error) {
	students, err := s.snapshot(ctx, req.Level)
	if err != nil {
		return nil, err
	}

	students = listview.Filter(students, req.Search,
		func(st models.Student) string { return st.FullName },
		func(st models.Student) string { return st.Code },
		func(st models.Student) string { return st.Church },
	)
	students = listview.SortStable(students, attendanceSortKey(req.Sort), req.Descending)
	return students, nil
}

func attendanceSortKey(key string) listview.Extractor[models.Student] {
	switch key {
	case "code":
		return func(st models.Student) string { return st.Code }
	case "lastAttendance":
		return func(st models.Student) string {
			entry, ok := st.LastAttendance()
			if !ok {
				return ""
			}
			return entry.DateTime
		}
	default:
		return func(st models.Student) string { return st.FullName }
	}
}

func (s *attendanceService) Report(ctx context.Context, req dto.AttendanceListRequest) (dto.AttendanceReportResponse, error) {
	students, err := s.rows(ctx, req)
	if err != nil {
		return dto.AttendanceReportResponse{}, err
	}

	items := make([]dto.AttendanceStudentResponse, 0, len(students))
	for _, st := range students {
		items = append(items, dto.NewAttendanceStudentResponse(st))
	}

	return dto.AttendanceReportResponse{Items: items, GeneratedAt: s.now().UTC()}, nil
}

var attendanceExportHeaders = []string{"Code", "Full Name", "Level", "Church", "Total", "Present", "Late", "Absent", "Last Check-in"}

// ExportExcel renders the filtered report as an xlsx workbook.
func (s *attendanceService) ExportExcel(ctx context.Context, req dto.AttendanceListRequest) ([]byte, error) {
	students, err := s.rows(ctx, req)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(students))
	for _, st := range students {
		stats := st.AttendanceSummary()
		last := ""
		if entry, ok := st.LastAttendance(); ok {
			last = entry.DateTime
		}
		rows = append(rows, []interface{}{
			st.Code, st.FullName, st.Level, st.Church, stats.Total, stats.Present, stats.Late, stats.Absent, last,
		})
	}

	data, err := spreadsheet.Build("Attendance", attendanceExportHeaders, rows)
	if err != nil {
		return nil, fmt.Errorf("build attendance workbook: %w", err)
	}

	s.logger.Info().Int("rows", len(rows)).Msg("attendance export built")
	return data, nil
}
