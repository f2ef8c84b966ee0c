package models

import "time"

// Restaurant is a cook-owned storefront document. Coordinates are optional:
// a restaurant without a geocoded location is skipped by distance filtering.
type Restaurant struct {
	ID                 string   `bson:"_id" json:"id"`
	UserID             string   `bson:"userId" json:"user_id"`
	Name               string   `bson:"name" json:"name"`
	Description        string   `bson:"description,omitempty" json:"description,omitempty"`
	Email              string   `bson:"email,omitempty" json:"email,omitempty"`
	Rating             float64  `bson:"rating,omitempty" json:"rating,omitempty"`
	Latitude           *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude          *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	RestaurantImageURL string   `bson:"restaurantImageUrl,omitempty" json:"restaurant_image_url,omitempty"`
	ShowcaseImageURLs  []string `bson:"showcaseImageUrls,omitempty" json:"showcase_image_urls,omitempty"`
	IsAvailable        bool     `bson:"isAvailable" json:"is_available"`

	// DistanceKM is computed per request from the caller's location; it is
	// never stored.
	DistanceKM *float64 `bson:"-" json:"distance_km,omitempty"`
}

// HasLocation reports whether the restaurant has geocoded coordinates.
func (r *Restaurant) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// User is an account document. Cooks are users with IsCook set.
type User struct {
	ID          string   `bson:"_id" json:"id"`
	Username    string   `bson:"username" json:"username"`
	DisplayName string   `bson:"displayName" json:"display_name"`
	Email       string   `bson:"email" json:"email"`
	Mobile      string   `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Postcode    string   `bson:"postcode,omitempty" json:"postcode,omitempty"`
	Latitude    *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	IsCook      bool     `bson:"isCook,omitempty" json:"is_cook,omitempty"`
	IsAdmin     bool     `bson:"isAdmin,omitempty" json:"is_admin,omitempty"`
}

// MasterMenuCategory is a shared dish template that cooks instantiate with
// their own price, description and images.
type MasterMenuCategory struct {
	ID      string `bson:"_id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Cuisine string `bson:"cuisine" json:"cuisine"`
}

// CookMenuItem is a cook's listing under a master menu category.
type CookMenuItem struct {
	ID               string   `bson:"_id" json:"id"`
	RestaurantID     string   `bson:"restaurantId" json:"restaurant_id"`
	MasterCategoryID string   `bson:"masterCategoryId" json:"master_category_id"`
	Name             string   `bson:"name" json:"name"`
	Description      string   `bson:"description,omitempty" json:"description,omitempty"`
	Price            float64  `bson:"price" json:"price"`
	Tags             []string `bson:"tags,omitempty" json:"tags,omitempty"`
	ImageURLs        []string `bson:"imageUrls,omitempty" json:"image_urls,omitempty"`
}

// Order statuses. Final statuses never regress.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Order records a checkout. TotalPrice is in the smallest currency unit
// (pence for GBP), matching what Stripe is charged.
type Order struct {
	ID                    string       `bson:"_id" json:"id"`
	SessionID             string       `bson:"sessionId" json:"session_id"`
	CookID                string       `bson:"cookId,omitempty" json:"cook_id,omitempty"`
	RestaurantID          string       `bson:"restaurantId" json:"restaurant_id"`
	Items                 []BasketItem `bson:"items" json:"items"`
	TotalPrice            int64        `bson:"totalPrice" json:"total_price"`
	Currency              string       `bson:"currency" json:"currency"`
	Status                string       `bson:"status" json:"status"`
	StripePaymentIntentID string       `bson:"stripePaymentIntentId" json:"stripe_payment_intent_id"`
	CreatedAt             time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt             time.Time    `bson:"updatedAt" json:"updated_at"`
}
