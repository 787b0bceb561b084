package models

import "time"

// ProductPrice is a locally stored price row for a catalog product,
// used by the admin price endpoints.
type ProductPrice struct {
	ID        string    `bson:"id" json:"id"`
	ProductID string    `bson:"product_id" json:"product_id"`
	Price     string    `bson:"price" json:"price"`
	Currency  string    `bson:"currency" json:"currency"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
