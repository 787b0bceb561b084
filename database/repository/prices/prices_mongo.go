package pricesRepo

import (
	"context"
	"errors"
	"time"

	"savoria/database"
	"savoria/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPriceRepo struct {
	coll *mongo.Collection
}

// NewMongoPriceRepo returns a PriceRepository backed by the
// "product_prices" collection.
func NewMongoPriceRepo() PriceRepository {
	coll := database.MongoClient.Database("savoria").Collection("product_prices")
	return &mongoPriceRepo{coll: coll}
}

// Upsert creates or updates the price row for a product.
func (r *mongoPriceRepo) Upsert(ctx context.Context, productID, price, currency string) (*models.ProductPrice, error) {
	if productID == "" {
		return nil, errors.New("product id is required")
	}
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"price":      price,
			"currency":   currency,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"id":         uuid.New().String(),
			"product_id": productID,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var row models.ProductPrice
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"product_id": productID}, update, opts).Decode(&row); err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByProductID returns the price row for a product.
func (r *mongoPriceRepo) GetByProductID(ctx context.Context, productID string) (*models.ProductPrice, error) {
	var row models.ProductPrice
	err := r.coll.FindOne(ctx, bson.M{"product_id": productID}).Decode(&row)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all locally stored price rows.
func (r *mongoPriceRepo) List(ctx context.Context) ([]models.ProductPrice, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []models.ProductPrice
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes the price row for a product.
func (r *mongoPriceRepo) Delete(ctx context.Context, productID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"product_id": productID})
	return err
}
