package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cookwho/backend/models"
)

// MenuRepository reads cook menu items. The document store keys items by
// restaurant, so every query scopes on restaurantId.
type MenuRepository struct {
	collection *mongo.Collection
}

func NewMenuRepository(db *mongo.Database) *MenuRepository {
	return &MenuRepository{
		collection: db.Collection("menuItems"),
	}
}

func (r *MenuRepository) FindByRestaurant(ctx context.Context, restaurantID string) ([]models.CookMenuItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"restaurantId": restaurantID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.CookMenuItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// HasCategoryItem reports whether the restaurant lists at least one item
// under the master category. One existence probe, no documents fetched.
func (r *MenuRepository) HasCategoryItem(ctx context.Context, restaurantID, masterCategoryID string) (bool, error) {
	filter := bson.M{
		"restaurantId":     restaurantID,
		"masterCategoryId": masterCategoryID,
	}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
