package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScorePathAcceptsPrefixedAndBareForms(t *testing.T) {
	prefixed, err := ParseScorePath("degree.secondTerm.coptic")
	require.NoError(t, err)
	require.Equal(t, TermSecond, prefixed.Term)
	require.Equal(t, SubjectCoptic, prefixed.Subject)

	bare, err := ParseScorePath("secondTerm.coptic")
	require.NoError(t, err)
	require.Equal(t, prefixed, bare)

	require.Equal(t, "degree.secondTerm.coptic", prefixed.Field())
}

func TestParseScorePathRejectsUnknownSegments(t *testing.T) {
	_, err := ParseScorePath("degree.fourthTerm.coptic")
	require.ErrorIs(t, err, ErrInvalidTerm)

	_, err = ParseScorePath("degree.firstTerm.maths")
	require.ErrorIs(t, err, ErrInvalidPath)

	_, err = ParseScorePath("firstTerm")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestAttendanceStorageKeyKeepsHistoricalSpelling(t *testing.T) {
	path := ScorePath{Term: TermFirst, Subject: SubjectAttendance}
	require.Equal(t, "degree.firstTerm.attencance", path.Field())
}

func TestApplyOverwritesLeavesAndRecomputesTouchedTotals(t *testing.T) {
	degree := Degree{
		FirstTerm:  TermScores{Agbya: 5, Coptic: 5, Hymns: 5, Taks: 5, Attendance: 5, Total: 25},
		SecondTerm: TermScores{Agbya: 1, Coptic: 2, Hymns: 3, Taks: 4, Attendance: 5, Total: 15},
	}

	next, err := degree.Apply([]ScoreEdit{
		{Path: ScorePath{Term: TermSecond, Subject: SubjectCoptic}, Value: 9},
		{Path: ScorePath{Term: TermSecond, Subject: SubjectTaks}, Value: 7},
	})
	require.NoError(t, err)

	require.Equal(t, 9.0, next.SecondTerm.Coptic)
	require.Equal(t, 7.0, next.SecondTerm.Taks)
	require.Equal(t, 1.0+9+3+7+5, next.SecondTerm.Total)

	// untouched terms carry over verbatim
	require.Equal(t, degree.FirstTerm, next.FirstTerm)
	require.Equal(t, degree.ThirdTerm, next.ThirdTerm)

	// the receiver is never mutated
	require.Equal(t, 2.0, degree.SecondTerm.Coptic)
	require.Equal(t, 15.0, degree.SecondTerm.Total)
}

func TestApplyLastEditWinsOnSameLeaf(t *testing.T) {
	next, err := Degree{}.Apply([]ScoreEdit{
		{Path: ScorePath{Term: TermFirst, Subject: SubjectHymns}, Value: 4},
		{Path: ScorePath{Term: TermFirst, Subject: SubjectHymns}, Value: 8},
	})
	require.NoError(t, err)
	require.Equal(t, 8.0, next.FirstTerm.Hymns)
	require.Equal(t, 8.0, next.FirstTerm.Total)
}

func TestTermScoresSum(t *testing.T) {
	ts := TermScores{Agbya: 1, Coptic: 2, Hymns: 3, Taks: 4, Attendance: 5}
	require.Equal(t, 15.0, ts.Sum())
}
