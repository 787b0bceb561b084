package pricesRepo

import (
	"context"

	"savoria/models"
)

// PriceRepository manages locally stored product price rows.
type PriceRepository interface {
	Upsert(ctx context.Context, productID, price, currency string) (*models.ProductPrice, error)
	GetByProductID(ctx context.Context, productID string) (*models.ProductPrice, error)
	List(ctx context.Context) ([]models.ProductPrice, error)
	Delete(ctx context.Context, productID string) error
}
