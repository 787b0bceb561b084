package catalog

import (
	"context"
	"strings"
	"sync"

	"savoria/models"
	"savoria/services/paypal"

	"go.uber.org/zap"
)

// Source fetches a fresh, flattened view of the remote catalog.
type Source interface {
	Fetch(ctx context.Context) ([]models.CatalogItem, error)
}

// InvoicingSource is the canonical source: v2 invoicing catalog items
// with the price embedded on each item.
type InvoicingSource struct {
	Client *paypal.Client
}

func (s *InvoicingSource) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	raw, err := s.Client.ListAllInvoicingItems(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.CatalogItem, 0, len(raw))
	for _, r := range raw {
		item := models.CatalogItem{
			ID:          r.ID,
			Name:        strings.TrimSpace(r.Name),
			Description: r.Description,
		}
		if item.Name == "" {
			continue
		}
		// Price and currency ride together or not at all.
		if r.UnitAmount.Value != "" && r.UnitAmount.CurrencyCode != "" {
			item.Price = r.UnitAmount.Value
			item.Currency = strings.ToUpper(r.UnitAmount.CurrencyCode)
		}
		items = append(items, item)
	}
	return items, nil
}

// planWorkers bounds the per-product plan lookups during a refresh.
const planWorkers = 8

// PlanSource is the legacy source: v1 catalog products joined to their
// best active plan price. Per-product lookups run concurrently on a
// bounded worker pool; a failed lookup degrades that product to
// unpriced instead of aborting the refresh.
type PlanSource struct {
	Client *paypal.Client
	Logger *zap.Logger
}

func (s *PlanSource) Fetch(ctx context.Context) ([]models.CatalogItem, error) {
	products, err := s.Client.ListAllProducts(ctx)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]*paypal.PlanPrice, len(products))
	var mu sync.Mutex
	var wg sync.WaitGroup

	jobs := make(chan paypal.Product)
	for w := 0; w < planWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				price, err := s.Client.BestPlanPrice(ctx, p.ID)
				if err != nil {
					if s.Logger != nil {
						s.Logger.Warn("plan price lookup failed, item degrades to unpriced",
							zap.String("productID", p.ID), zap.Error(err))
					}
					continue
				}
				if price == nil {
					continue
				}
				mu.Lock()
				prices[p.ID] = price
				mu.Unlock()
			}
		}()
	}
	for _, p := range products {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	// Results are keyed by product id, so worker completion order is
	// irrelevant to the merged snapshot.
	items := make([]models.CatalogItem, 0, len(products))
	for _, p := range products {
		item := models.CatalogItem{
			ID:          p.ID,
			Name:        strings.TrimSpace(p.Name),
			Description: p.Description,
		}
		if item.Name == "" {
			continue
		}
		if price, ok := prices[p.ID]; ok && price.Value != "" && price.Currency != "" {
			item.Price = price.Value
			item.Currency = price.Currency
		}
		items = append(items, item)
	}
	return items, nil
}
