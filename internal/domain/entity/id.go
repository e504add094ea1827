package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh store-native identifier (24-char hex ObjectID).
// SQL adapters use the same format so ids stay portable across stores.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether s is a well-formed identifier.
func IsValidID(s string) bool {
	return primitive.IsValidObjectID(s)
}
