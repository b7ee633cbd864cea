package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/models"
)

// ContentRepository stores curriculum documents for one content collection
// (agbya, taks, coptic or hymns).
type ContentRepository interface {
	GetAll(ctx context.Context) ([]models.ContentDocument, error)
	GetByID(ctx context.Context, id string) (models.ContentDocument, error)
	Create(ctx context.Context, doc *models.ContentDocument) error
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type contentRepository struct {
	collection *mongo.Collection
}

func NewContentRepository(db *mongo.Database, collection string) ContentRepository {
	return &contentRepository{collection: db.Collection(collection)}
}

func (r *contentRepository) GetAll(ctx context.Context) ([]models.ContentDocument, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := make([]models.ContentDocument, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (models.ContentDocument, error) {
	var doc models.ContentDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return models.ContentDocument{}, err
	}
	return doc, nil
}

func (r *contentRepository) Create(ctx context.Context, doc *models.ContentDocument) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *contentRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	for key, value := range fields {
		set[key] = value
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *contentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
