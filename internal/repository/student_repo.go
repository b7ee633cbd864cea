package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keraza-portal/keraza-go-api/internal/models"
)

// Collection names for the main and pending student record sets.
const (
	StudentCollection = "users"
	PendingCollection = "pending_users"
)

// StudentPatch is one partial update keyed by code. Fields may address
// nested degree leaves with dotted paths; the store patches exactly the
// named fields and leaves siblings untouched.
type StudentPatch struct {
	Code   string
	Fields map[string]interface{}
}

// BulkFailure records one patch the store could not apply.
type BulkFailure struct {
	Code   string
	Reason string
}

// BulkResult reports the per-patch outcome of a bulk update.
type BulkResult struct {
	Successful []string
	Failed     []BulkFailure
}

// StudentRepository provides code-keyed access to one student collection.
type StudentRepository interface {
	GetAll(ctx context.Context) ([]models.Student, error)
	ListByLevel(ctx context.Context, level string) ([]models.Student, error)
	ListCodes(ctx context.Context) (map[string]struct{}, error)
	GetByCode(ctx context.Context, code string) (models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, code string, fields map[string]interface{}) error
	Delete(ctx context.Context, code string) error
	BulkUpdate(ctx context.Context, patches []StudentPatch) (BulkResult, error)
}

type studentRepository struct {
	collection *mongo.Collection
}

// NewStudentRepository constructs a repository over the named collection
// (the main record set or its pending holding area).
func NewStudentRepository(db *mongo.Database, collection string) StudentRepository {
	return &studentRepository{collection: db.Collection(collection)}
}

func (r *studentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	return r.find(ctx, bson.M{})
}

func (r *studentRepository) ListByLevel(ctx context.Context, level string) ([]models.Student, error) {
	filter := bson.M{}
	if level != "" && level != "all" {
		filter["level"] = level
	}
	return r.find(ctx, filter)
}

func (r *studentRepository) find(ctx context.Context, filter bson.M) ([]models.Student, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	students := make([]models.Student, 0)
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *studentRepository) ListCodes(ctx context.Context) (map[string]struct{}, error) {
	projection := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, projection)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	codes := make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			Code string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		codes[doc.Code] = struct{}{}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

func (r *studentRepository) GetByCode(ctx context.Context, code string) (models.Student, error) {
	var student models.Student
	if err := r.collection.FindOne(ctx, bson.M{"_id": code}).Decode(&student); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, student)
	return err
}

func (r *studentRepository) Update(ctx context.Context, code string, fields map[string]interface{}) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": code}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, code string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": code})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// BulkUpdate applies each patch independently so one bad row never blocks
// the rest. Codes that vanished between the caller's existence check and the
// update surface as failures rather than errors.
func (r *studentRepository) BulkUpdate(ctx context.Context, patches []StudentPatch) (BulkResult, error) {
	result := BulkResult{
		Successful: make([]string, 0, len(patches)),
		Failed:     make([]BulkFailure, 0),
	}

	for _, patch := range patches {
		if err := ctx.Err(); err != nil {
			return BulkResult{}, err
		}

		err := r.Update(ctx, patch.Code, patch.Fields)
		switch {
		case err == nil:
			result.Successful = append(result.Successful, patch.Code)
		case err == mongo.ErrNoDocuments:
			result.Failed = append(result.Failed, BulkFailure{Code: patch.Code, Reason: "code not found"})
		default:
			result.Failed = append(result.Failed, BulkFailure{Code: patch.Code, Reason: err.Error()})
		}
	}

	return result, nil
}
