package domain

import "time"

// Recommendation is a directed edge: sender recommended property to receiver.
// The table keys on receiver_id + edge_id where edge_id is "sender#property",
// so the (sender, receiver, property) triple is unique at the store level.
type Recommendation struct {
	RecommendationID string    `json:"id" dynamodbav:"recommendation_id"`
	ReceiverID       string    `json:"receiver" dynamodbav:"receiver_id"`
	EdgeID           string    `json:"-" dynamodbav:"edge_id"`
	SenderID         string    `json:"sender" dynamodbav:"sender_id"`
	PropertyID       string    `json:"property" dynamodbav:"property_id"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// RecommendationEdgeID builds the sort key that makes the triple unique under
// the receiver partition.
func RecommendationEdgeID(senderID, propertyID string) string {
	return senderID + "#" + propertyID
}

// UserSummary is the subset of user fields exposed when a recommendation is
// populated with its sender or receiver.
type UserSummary struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// RecommendationView is a recommendation with its referenced documents
// populated for list responses.
type RecommendationView struct {
	Recommendation
	Sender   *UserSummary `json:"senderDetails,omitempty"`
	Receiver *UserSummary `json:"receiverDetails,omitempty"`
	Property *Property    `json:"propertyDetails,omitempty"`
}

type RecommendRequest struct {
	Email      string `json:"email" validate:"required,email"`
	PropertyID string `json:"propertyId" validate:"required"`
}
