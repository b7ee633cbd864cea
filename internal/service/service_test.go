package service

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/models"
	"github.com/keraza-portal/keraza-go-api/internal/repository"
)

// fakeStudentRepo backs the service tests with an in-memory record set.
type fakeStudentRepo struct {
	students map[string]models.Student
	patches  []repository.StudentPatch

	listErr   error
	updateErr error
	failCodes map[string]error
}

func newFakeStudentRepo(students ...models.Student) *fakeStudentRepo {
	repo := &fakeStudentRepo{students: make(map[string]models.Student, len(students))}
	for _, student := range students {
		repo.students[student.Code] = student
	}
	return repo
}

func (f *fakeStudentRepo) GetAll(_ context.Context) ([]models.Student, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	codes := make([]string, 0, len(f.students))
	for code := range f.students {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	students := make([]models.Student, 0, len(codes))
	for _, code := range codes {
		students = append(students, f.students[code])
	}
	return students, nil
}

func (f *fakeStudentRepo) ListByLevel(ctx context.Context, level string) ([]models.Student, error) {
	students, err := f.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if level == "" || level == "all" {
		return students, nil
	}
	matched := make([]models.Student, 0, len(students))
	for _, student := range students {
		if student.Level == level {
			matched = append(matched, student)
		}
	}
	return matched, nil
}

func (f *fakeStudentRepo) ListCodes(_ context.Context) (map[string]struct{}, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	codes := make(map[string]struct{}, len(f.students))
	for code := range f.students {
		codes[code] = struct{}{}
	}
	return codes, nil
}

func (f *fakeStudentRepo) GetByCode(_ context.Context, code string) (models.Student, error) {
	student, ok := f.students[code]
	if !ok {
		return models.Student{}, mongo.ErrNoDocuments
	}
	return student, nil
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	if _, ok := f.students[student.Code]; ok {
		return mongo.CommandError{Code: 11000, Message: "duplicate key"}
	}
	f.students[student.Code] = *student
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, code string, fields map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if err, ok := f.failCodes[code]; ok {
		return err
	}
	if _, ok := f.students[code]; !ok {
		return mongo.ErrNoDocuments
	}
	f.patches = append(f.patches, repository.StudentPatch{Code: code, Fields: fields})
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, code string) error {
	if _, ok := f.students[code]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.students, code)
	return nil
}

func (f *fakeStudentRepo) BulkUpdate(ctx context.Context, patches []repository.StudentPatch) (repository.BulkResult, error) {
	result := repository.BulkResult{Successful: make([]string, 0), Failed: make([]repository.BulkFailure, 0)}
	for _, patch := range patches {
		if err := f.Update(ctx, patch.Code, patch.Fields); err != nil {
			result.Failed = append(result.Failed, repository.BulkFailure{Code: patch.Code, Reason: err.Error()})
			continue
		}
		result.Successful = append(result.Successful, patch.Code)
	}
	return result, nil
}

func (f *fakeStudentRepo) lastPatch() repository.StudentPatch {
	if len(f.patches) == 0 {
		return repository.StudentPatch{}
	}
	return f.patches[len(f.patches)-1]
}
