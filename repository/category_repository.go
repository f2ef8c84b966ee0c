package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cookwho/backend/models"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		collection: db.Collection("masterMenuCategories"),
	}
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.MasterMenuCategory, error) {
	var category models.MasterMenuCategory
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindAll returns the master menu, optionally narrowed to one cuisine.
func (r *CategoryRepository) FindAll(ctx context.Context, cuisine string) ([]models.MasterMenuCategory, error) {
	filter := bson.M{}
	if cuisine != "" {
		filter["cuisine"] = cuisine
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.MasterMenuCategory
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
