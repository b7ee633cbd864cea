package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTerm indicates the named term is not one of the three recognized terms.
	ErrInvalidTerm = errors.New("invalid term")
	// ErrInvalidPath indicates a score path does not resolve to a term/subject leaf.
	ErrInvalidPath = errors.New("invalid score path")
)

// Term identifies one of the three academic periods.
type Term int

const (
	TermFirst Term = iota
	TermSecond
	TermThird
)

var termKeys = map[Term]string{
	TermFirst:  "firstTerm",
	TermSecond: "secondTerm",
	TermThird:  "thirdTerm",
}

// ParseTerm maps a wire-format term name to its enum value.
func ParseTerm(name string) (Term, error) {
	for term, key := range termKeys {
		if key == strings.TrimSpace(name) {
			return term, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidTerm, name)
}

func (t Term) String() string {
	if key, ok := termKeys[t]; ok {
		return key
	}
	return fmt.Sprintf("term(%d)", int(t))
}

// Valid reports whether the term is one of the three recognized periods.
func (t Term) Valid() bool {
	_, ok := termKeys[t]
	return ok
}

// TotalField returns the dotted storage path of the term's derived total.
func (t Term) TotalField() string {
	return "degree." + t.String() + ".total"
}

// Subject identifies a graded subject within a term.
type Subject int

const (
	SubjectAgbya Subject = iota
	SubjectCoptic
	SubjectHymns
	SubjectTaks
	SubjectAttendance
)

// The storage key for attendance keeps the historical spelling used by the
// existing data set; renaming it would orphan every stored record.
var subjectKeys = map[Subject]string{
	SubjectAgbya:      "agbya",
	SubjectCoptic:     "coptic",
	SubjectHymns:      "hymns",
	SubjectTaks:       "taks",
	SubjectAttendance: "attencance",
}

// ParseSubject maps a wire-format subject key to its enum value.
func ParseSubject(name string) (Subject, error) {
	for subject, key := range subjectKeys {
		if key == strings.TrimSpace(name) {
			return subject, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown subject %q", ErrInvalidPath, name)
}

func (s Subject) String() string {
	if key, ok := subjectKeys[s]; ok {
		return key
	}
	return fmt.Sprintf("subject(%d)", int(s))
}

// Valid reports whether the subject belongs to the fixed schema.
func (s Subject) Valid() bool {
	_, ok := subjectKeys[s]
	return ok
}

// ScorePath addresses a single subject leaf inside the degree structure.
// The closed enum replaces the runtime string-splitting the legacy forms
// used, so an unknown path can only occur at the API boundary.
type ScorePath struct {
	Term    Term
	Subject Subject
}

// ParseScorePath resolves a dotted path of the form degree.<term>.<subject>.
func ParseScorePath(path string) (ScorePath, error) {
	parts := strings.Split(strings.TrimSpace(path), ".")
	if len(parts) == 3 && parts[0] == "degree" {
		parts = parts[1:]
	}
	if len(parts) != 2 {
		return ScorePath{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	term, err := ParseTerm(parts[0])
	if err != nil {
		return ScorePath{}, err
	}

	subject, err := ParseSubject(parts[1])
	if err != nil {
		return ScorePath{}, err
	}

	return ScorePath{Term: term, Subject: subject}, nil
}

// Field returns the dotted storage path for the addressed leaf.
func (p ScorePath) Field() string {
	return "degree." + p.Term.String() + "." + p.Subject.String()
}

// ScoreEdit overwrites a single subject leaf with a new value.
type ScoreEdit struct {
	Path  ScorePath
	Value float64
}

// TermScores holds the per-subject scores of one term plus the derived total.
type TermScores struct {
	Agbya      float64 `bson:"agbya" json:"agbya"`
	Coptic     float64 `bson:"coptic" json:"coptic"`
	Hymns      float64 `bson:"hymns" json:"hymns"`
	Taks       float64 `bson:"taks" json:"taks"`
	Attendance float64 `bson:"attencance" json:"attencance"`
	Total      float64 `bson:"total" json:"total"`
}

// Sum derives the term total from the five subject scores. Subjects that a
// given edit form never carries (first-term attendance) are zero-valued and
// therefore contribute nothing.
func (ts TermScores) Sum() float64 {
	return ts.Agbya + ts.Coptic + ts.Hymns + ts.Taks + ts.Attendance
}

func (ts TermScores) score(s Subject) float64 {
	switch s {
	case SubjectAgbya:
		return ts.Agbya
	case SubjectCoptic:
		return ts.Coptic
	case SubjectHymns:
		return ts.Hymns
	case SubjectTaks:
		return ts.Taks
	case SubjectAttendance:
		return ts.Attendance
	}
	return 0
}

func (ts *TermScores) setScore(s Subject, value float64) {
	switch s {
	case SubjectAgbya:
		ts.Agbya = value
	case SubjectCoptic:
		ts.Coptic = value
	case SubjectHymns:
		ts.Hymns = value
	case SubjectTaks:
		ts.Taks = value
	case SubjectAttendance:
		ts.Attendance = value
	}
}

// Degree is the fixed three-term score structure attached to every student.
type Degree struct {
	FirstTerm  TermScores `bson:"firstTerm" json:"firstTerm"`
	SecondTerm TermScores `bson:"secondTerm" json:"secondTerm"`
	ThirdTerm  TermScores `bson:"thirdTerm" json:"thirdTerm"`
}

func (d *Degree) term(t Term) *TermScores {
	switch t {
	case TermFirst:
		return &d.FirstTerm
	case TermSecond:
		return &d.SecondTerm
	case TermThird:
		return &d.ThirdTerm
	}
	return nil
}

// TermScores returns the scores of the given term.
func (d Degree) TermScores(t Term) (TermScores, error) {
	ts := d.term(t)
	if ts == nil {
		return TermScores{}, fmt.Errorf("%w: %s", ErrInvalidTerm, t)
	}
	return *ts, nil
}

// Score returns the value at the addressed leaf.
func (d Degree) Score(p ScorePath) (float64, error) {
	ts := d.term(p.Term)
	if ts == nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTerm, p.Term)
	}
	if !p.Subject.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPath, p.Subject)
	}
	return ts.score(p.Subject), nil
}

// Apply returns a copy of the degree with each addressed leaf overwritten and
// the total of every touched term recomputed. Sibling subjects and untouched
// terms carry over unchanged; the receiver is never mutated.
func (d Degree) Apply(edits []ScoreEdit) (Degree, error) {
	next := d
	touched := make(map[Term]struct{}, len(edits))

	for _, edit := range edits {
		if !edit.Path.Term.Valid() {
			return Degree{}, fmt.Errorf("%w: %s", ErrInvalidTerm, edit.Path.Term)
		}
		if !edit.Path.Subject.Valid() {
			return Degree{}, fmt.Errorf("%w: %s", ErrInvalidPath, edit.Path.Subject)
		}

		next.term(edit.Path.Term).setScore(edit.Path.Subject, edit.Value)
		touched[edit.Path.Term] = struct{}{}
	}

	for term := range touched {
		ts := next.term(term)
		ts.Total = ts.Sum()
	}

	return next, nil
}
