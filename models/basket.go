package models

import "time"

// BasketItem is a menu item snapshot plus order-time fields. ID is unique
// within a basket; RestaurantID/RestaurantName identify the owning cook.
type BasketItem struct {
	ID               string   `bson:"id" json:"id"`
	MasterCategoryID string   `bson:"masterCategoryId,omitempty" json:"master_category_id,omitempty"`
	Name             string   `bson:"name" json:"name"`
	Description      string   `bson:"description,omitempty" json:"description,omitempty"`
	Price            float64  `bson:"price" json:"price"`
	Quantity         int      `bson:"quantity" json:"quantity"`
	RestaurantID     string   `bson:"restaurantId" json:"restaurant_id"`
	RestaurantName   string   `bson:"restaurantName" json:"restaurant_name"`
	Tags             []string `bson:"tags,omitempty" json:"tags,omitempty"`
	ImageURLs        []string `bson:"imageUrls,omitempty" json:"image_urls,omitempty"`
}

// Basket is the in-progress single-restaurant order for one client session.
// All mutations keep the invariant that no item ever has quantity below one;
// operations on absent ids are benign no-ops rather than errors.
type Basket struct {
	SessionID string       `json:"session_id"`
	Items     []BasketItem `json:"items"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewBasket returns an empty basket for the session.
func NewBasket(sessionID string) *Basket {
	return &Basket{SessionID: sessionID, Items: []BasketItem{}}
}

func (b *Basket) find(itemID string) int {
	for i := range b.Items {
		if b.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// AddItem appends the item with quantity forced to one, or increments the
// quantity of an existing item with the same id. It always succeeds.
func (b *Basket) AddItem(item BasketItem) {
	if i := b.find(item.ID); i >= 0 {
		b.Items[i].Quantity++
		return
	}
	item.Quantity = 1
	b.Items = append(b.Items, item)
}

// RemoveItem removes the matching item and reports whether the basket
// changed. Removing an absent id is a no-op.
func (b *Basket) RemoveItem(itemID string) bool {
	i := b.find(itemID)
	if i < 0 {
		return false
	}
	b.Items = append(b.Items[:i], b.Items[i+1:]...)
	return true
}

// IncrementQuantity raises the quantity of the matching item by one and
// reports whether the basket changed.
func (b *Basket) IncrementQuantity(itemID string) bool {
	i := b.find(itemID)
	if i < 0 {
		return false
	}
	b.Items[i].Quantity++
	return true
}

// DecrementQuantity lowers the quantity of the matching item by one. An item
// at quantity one is removed entirely instead of reaching zero. It returns
// whether the item was removed and whether the basket changed at all.
func (b *Basket) DecrementQuantity(itemID string) (removed, changed bool) {
	i := b.find(itemID)
	if i < 0 {
		return false, false
	}
	if b.Items[i].Quantity > 1 {
		b.Items[i].Quantity--
		return false, true
	}
	b.Items = append(b.Items[:i], b.Items[i+1:]...)
	return true, true
}

// Clear empties the basket unconditionally.
func (b *Basket) Clear() {
	b.Items = []BasketItem{}
}

// TotalPrice is recomputed from the current contents on every call.
func (b *Basket) TotalPrice() float64 {
	var total float64
	for _, item := range b.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// RestaurantID returns the owning restaurant of the basket's contents, or
// an empty string for an empty basket. Every item shares this id; the
// cross-restaurant confirmation flow at the HTTP layer keeps it that way.
func (b *Basket) RestaurantID() string {
	if len(b.Items) == 0 {
		return ""
	}
	return b.Items[0].RestaurantID
}

// IsEmpty reports whether the basket has no items.
func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}
