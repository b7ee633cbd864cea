package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keraza-portal/keraza-go-api/internal/models"
)

const adminCollection = "admins"

// AdminRepository stores dashboard operator accounts keyed by username.
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (models.AdminAccount, error)
	Create(ctx context.Context, account *models.AdminAccount) error
}

type adminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(db *mongo.Database) AdminRepository {
	return &adminRepository{collection: db.Collection(adminCollection)}
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (models.AdminAccount, error) {
	var account models.AdminAccount
	if err := r.collection.FindOne(ctx, bson.M{"_id": username}).Decode(&account); err != nil {
		return models.AdminAccount{}, err
	}
	return account, nil
}

func (r *adminRepository) Create(ctx context.Context, account *models.AdminAccount) error {
	_, err := r.collection.InsertOne(ctx, account)
	return err
}
