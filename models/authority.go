package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Authority is a response unit. Owned by the account-management service; this
// API only reads it for dispatch and contact lookup.
type Authority struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Station     string             `bson:"station" json:"station"`
	Lat         float64            `bson:"lat" json:"lat"`
	Lng         float64            `bson:"lng" json:"lng"`
	IsAvailable bool               `bson:"is_available" json:"is_available"`
}
