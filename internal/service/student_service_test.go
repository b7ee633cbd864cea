package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/pkg/spreadsheet"
)

func TestStudentListFiltersSortsAndPaginates(t *testing.T) {
	students := make([]models.Student, 0, 25)
	for i := 0; i < 25; i++ {
		students = append(students, models.Student{
			Code:     fmt.Sprintf("%03d", i),
			FullName: fmt.Sprintf("Student %02d", i),
			Level:    "one",
		})
	}
	students = append(students, models.Student{Code: "900", FullName: "Other", Level: "two"})

	svc := NewStudentService(newFakeStudentRepo(students...), zerolog.Nop())

	response, err := svc.List(context.Background(), dto.StudentListRequest{
		Page:   2,
		Levels: []string{"one"},
		Sort:   "code",
	})
	require.NoError(t, err)
	require.Equal(t, 2, response.Pagination.Page)
	require.Equal(t, 25, response.Pagination.TotalItems)
	require.Equal(t, 2, response.Pagination.TotalPages)
	require.Len(t, response.Items, 5)
	require.Equal(t, "020", response.Items[0].Code)
}

func TestStudentListSearchMatchesNameAndCode(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(
		models.Student{Code: "100", FullName: "Mina Adel"},
		models.Student{Code: "200", FullName: "Kirollos"},
	), zerolog.Nop())

	response, err := svc.List(context.Background(), dto.StudentListRequest{Search: "mina"})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.Equal(t, "100", response.Items[0].Code)

	response, err = svc.List(context.Background(), dto.StudentListRequest{Search: "200"})
	require.NoError(t, err)
	require.Len(t, response.Items, 1)
	require.Equal(t, "Kirollos", response.Items[0].FullName)
}

func TestStudentCreateAssignsTimestampCode(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, zerolog.Nop()).(*studentService)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC) }

	student, err := svc.Create(context.Background(), dto.StudentCreateRequest{FullName: "Mina", Active: true})
	require.NoError(t, err)
	require.Equal(t, "20260314150926", student.Code)
	require.True(t, student.Active)

	_, err = svc.Create(context.Background(), dto.StudentCreateRequest{FullName: "Clone"})
	require.ErrorIs(t, err, ErrStudentExists)
}

func TestStudentUpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{Code: "100", FullName: "Old", Church: "St Mary"})
	svc := NewStudentService(repo, zerolog.Nop())

	name := "New"
	_, err := svc.Update(context.Background(), "100", dto.StudentUpdateRequest{FullName: &name})
	require.NoError(t, err)

	patch := repo.lastPatch()
	require.Equal(t, "New", patch.Fields["fullName"])
	require.NotContains(t, patch.Fields, "church")
}

func TestPromoteMovesRecordBetweenCollections(t *testing.T) {
	pendingRepo := newFakeStudentRepo(models.Student{Code: "100", FullName: "Pending Kid"})
	mainRepo := newFakeStudentRepo()

	pending := NewStudentService(pendingRepo, zerolog.Nop())
	main := NewStudentService(mainRepo, zerolog.Nop())

	student, err := pending.Promote(context.Background(), "100", main)
	require.NoError(t, err)
	require.Equal(t, "100", student.Code)

	_, err = pending.Get(context.Background(), "100")
	require.ErrorIs(t, err, ErrStudentNotFound)

	moved, err := main.Get(context.Background(), "100")
	require.NoError(t, err)
	require.Equal(t, "Pending Kid", moved.FullName)
}

func TestPromoteConflictKeepsPendingRecord(t *testing.T) {
	pendingRepo := newFakeStudentRepo(models.Student{Code: "100"})
	mainRepo := newFakeStudentRepo(models.Student{Code: "100"})

	pending := NewStudentService(pendingRepo, zerolog.Nop())
	main := NewStudentService(mainRepo, zerolog.Nop())

	_, err := pending.Promote(context.Background(), "100", main)
	require.ErrorIs(t, err, ErrStudentExists)

	_, err = pending.Get(context.Background(), "100")
	require.NoError(t, err)
}

func TestExportExcelCoversAllMatchingRecords(t *testing.T) {
	students := make([]models.Student, 0, 30)
	for i := 0; i < 30; i++ {
		students = append(students, models.Student{
			Code:     fmt.Sprintf("%03d", i),
			FullName: fmt.Sprintf("Student %02d", i),
		})
	}
	svc := NewStudentService(newFakeStudentRepo(students...), zerolog.Nop())

	data, err := svc.ExportExcel(context.Background(), dto.StudentListRequest{Sort: "code"})
	require.NoError(t, err)

	rows, headers, err := spreadsheet.Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "Code", headers[0])
	require.Len(t, rows, 30)
	require.Equal(t, "000", rows[0].Value("Code"))
}
