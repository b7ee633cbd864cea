package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/keraza-portal/keraza-go-api/internal/dto"
	"github.com/keraza-portal/keraza-go-api/internal/models"
)

func TestDegreeUpdateWritesOnlyTouchedLeavesAndTotals(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{
		Code:     "100",
		FullName: "Mina",
		Degree: models.Degree{
			SecondTerm: models.TermScores{Agbya: 1, Coptic: 2, Hymns: 3, Taks: 4, Attendance: 5, Total: 15},
		},
	})
	svc := NewDegreeService(repo, zerolog.Nop())

	response, err := svc.Update(context.Background(), "100", dto.DegreeUpdateRequest{
		Edits: []dto.ScoreEditRequest{{Path: "degree.secondTerm.coptic", Value: 9}},
	})
	require.NoError(t, err)
	require.Equal(t, 9.0, response.Degree.SecondTerm.Coptic)
	require.Equal(t, 22.0, response.Degree.SecondTerm.Total)

	patch := repo.lastPatch()
	require.Equal(t, map[string]interface{}{
		"degree.secondTerm.coptic": 9.0,
		"degree.secondTerm.total":  22.0,
	}, patch.Fields)
}

func TestDegreeUpdateRejectsUnknownPathBeforeWriting(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{Code: "100"})
	svc := NewDegreeService(repo, zerolog.Nop())

	_, err := svc.Update(context.Background(), "100", dto.DegreeUpdateRequest{
		Edits: []dto.ScoreEditRequest{{Path: "degree.firstTerm.maths", Value: 1}},
	})
	require.ErrorIs(t, err, models.ErrInvalidPath)
	require.Empty(t, repo.patches)
}

func TestDegreeUpdateUnknownStudent(t *testing.T) {
	svc := NewDegreeService(newFakeStudentRepo(), zerolog.Nop())

	_, err := svc.Update(context.Background(), "missing", dto.DegreeUpdateRequest{
		Edits: []dto.ScoreEditRequest{{Path: "firstTerm.agbya", Value: 1}},
	})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDegreeGetReturnsFullStructure(t *testing.T) {
	repo := newFakeStudentRepo(models.Student{
		Code:     "100",
		FullName: "Mina",
		Degree:   models.Degree{FirstTerm: models.TermScores{Agbya: 7, Total: 7}},
	})
	svc := NewDegreeService(repo, zerolog.Nop())

	response, err := svc.Get(context.Background(), "100")
	require.NoError(t, err)
	require.Equal(t, "Mina", response.FullName)
	require.Equal(t, 7.0, response.Degree.FirstTerm.Agbya)
}
