package domain

import "time"

// Favorite is the (user, property) join entity. The favorites table keys on
// user_id + property_id, so a user can favorite a given property at most once.
type Favorite struct {
	UserID     string    `json:"user" dynamodbav:"user_id"`
	PropertyID string    `json:"property" dynamodbav:"property_id"`
	CreatedAt  time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// FavoriteWithProperty is a favorite with its property document populated for
// list responses.
type FavoriteWithProperty struct {
	Favorite
	Property *Property `json:"propertyDetails,omitempty"`
}
