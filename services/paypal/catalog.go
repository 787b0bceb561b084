package paypal

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxCatalogPages bounds pagination loops so a misbehaving remote can
// never spin the refresh forever.
const maxCatalogPages = 50

// Product is a raw catalog product (v1 catalogs variant, no price).
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type productPage struct {
	Products   []Product `json:"products"`
	TotalItems int       `json:"total_items"`
}

// ListProducts fetches a single page of catalog products.
func (c *Client) ListProducts(ctx context.Context, pageSize, page int) ([]Product, int, error) {
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("total_required", "true")

	var out productPage
	if err := c.doJSON(ctx, http.MethodGet, "/v1/catalogs/products", q, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Products, out.TotalItems, nil
}

// ListAllProducts walks every product page up to the safety bound. A
// failed page terminates the walk; products gathered so far are kept.
func (c *Client) ListAllProducts(ctx context.Context) ([]Product, error) {
	const pageSize = 20
	var all []Product
	for page := 1; page <= maxCatalogPages; page++ {
		products, total, err := c.ListProducts(ctx, pageSize, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			break
		}
		if len(products) == 0 {
			break
		}
		all = append(all, products...)
		if total > 0 && page >= (total+pageSize-1)/pageSize {
			break
		}
		if len(products) < pageSize {
			break
		}
	}
	return all, nil
}

// Plan is a pricing plan attached to a product, flattened to the fields
// the catalog cache cares about.
type Plan struct {
	ID       string
	Status   string
	Price    string
	Currency string
}

type planListResponse struct {
	Plans []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"plans"`
}

type planDetailResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	BillingCycles []struct {
		TenureType    string `json:"tenure_type"`
		PricingScheme struct {
			FixedPrice struct {
				Value        string `json:"value"`
				CurrencyCode string `json:"currency_code"`
			} `json:"fixed_price"`
		} `json:"pricing_scheme"`
	} `json:"billing_cycles"`
}

// ListPlans fetches the plans for a product, resolving each plan's
// regular-cycle fixed price.
func (c *Client) ListPlans(ctx context.Context, productID string) ([]Plan, error) {
	q := url.Values{}
	q.Set("product_id", productID)
	q.Set("page_size", "20")
	q.Set("page", "1")

	var list planListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/billing/plans", q, nil, &list); err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(list.Plans))
	for _, p := range list.Plans {
		plan := Plan{ID: p.ID, Status: strings.ToUpper(p.Status)}

		var detail planDetailResponse
		if err := c.doJSON(ctx, http.MethodGet, "/v1/billing/plans/"+p.ID, nil, nil, &detail); err == nil {
			if detail.Status != "" {
				plan.Status = strings.ToUpper(detail.Status)
			}
			for _, cycle := range detail.BillingCycles {
				if strings.EqualFold(cycle.TenureType, "REGULAR") {
					plan.Price = cycle.PricingScheme.FixedPrice.Value
					plan.Currency = strings.ToUpper(cycle.PricingScheme.FixedPrice.CurrencyCode)
					break
				}
			}
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// PlanPrice is the selected best price for a product.
type PlanPrice struct {
	Value    string
	Currency string
	Status   string
}

// BestPlanPrice picks the winning plan for a product: active status
// beats inactive, then lowest numeric price wins; a plan with a missing
// or unparsable price sorts as infinitely expensive and loses all ties.
// Returns nil when the product has no plans at all.
func (c *Client) BestPlanPrice(ctx context.Context, productID string) (*PlanPrice, error) {
	plans, err := c.ListPlans(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}

	type ranked struct {
		inactive int
		price    float64
		plan     Plan
	}
	var best *ranked
	for _, p := range plans {
		r := ranked{price: math.Inf(1), plan: p}
		if p.Status != "ACTIVE" {
			r.inactive = 1
		}
		if p.Price != "" {
			if v, err := strconv.ParseFloat(p.Price, 64); err == nil {
				r.price = v
			}
		}
		if best == nil || r.inactive < best.inactive ||
			(r.inactive == best.inactive && r.price < best.price) {
			b := r
			best = &b
		}
	}

	if math.IsInf(best.price, 1) {
		return &PlanPrice{Status: best.plan.Status}, nil
	}
	return &PlanPrice{
		Value:    best.plan.Price,
		Currency: best.plan.Currency,
		Status:   best.plan.Status,
	}, nil
}

// Money is a currency-tagged amount as the invoicing API represents it.
type Money struct {
	Value        string `json:"value"`
	CurrencyCode string `json:"currency_code"`
}

// InvoicingItem is a catalog item from the v2 invoicing catalog, where
// the price is embedded directly on the item.
type InvoicingItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitAmount  Money  `json:"unit_amount"`
}

type invoicingItemPage struct {
	Items      []InvoicingItem `json:"items"`
	TotalItems int             `json:"total_items"`
}

// ListInvoicingItems fetches a single page of invoicing catalog items.
func (c *Client) ListInvoicingItems(ctx context.Context, pageSize, page int) ([]InvoicingItem, int, error) {
	if pageSize > 50 {
		pageSize = 50
	}
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page_size", strconv.Itoa(pageSize))
	q.Set("page", strconv.Itoa(page))

	var out invoicingItemPage
	if err := c.doJSON(ctx, http.MethodGet, "/v2/invoicing/catalogs/items", q, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Items, out.TotalItems, nil
}

// ListAllInvoicingItems walks every invoicing-catalog page up to the
// safety bound.
func (c *Client) ListAllInvoicingItems(ctx context.Context) ([]InvoicingItem, error) {
	const pageSize = 20
	var all []InvoicingItem
	for page := 1; page <= maxCatalogPages; page++ {
		items, _, err := c.ListInvoicingItems(ctx, pageSize, page)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("list invoicing items: %w", err)
			}
			break
		}
		if len(items) == 0 {
			break
		}
		all = append(all, items...)
		if len(items) < pageSize {
			break
		}
	}
	return all, nil
}
