package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cookwho/backend/models"
)

type RestaurantRepository struct {
	collection *mongo.Collection
}

func NewRestaurantRepository(db *mongo.Database) *RestaurantRepository {
	return &RestaurantRepository{
		collection: db.Collection("restaurants"),
	}
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&restaurant)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// FindAvailable returns restaurants currently marked available, in store
// order.
func (r *RestaurantRepository) FindAvailable(ctx context.Context) ([]models.Restaurant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isAvailable": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var restaurants []models.Restaurant
	if err = cursor.All(ctx, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Collection exposes the underlying collection for live bindings.
func (r *RestaurantRepository) Collection() *mongo.Collection {
	return r.collection
}
