package models

import "time"

// CatalogItem is one sellable menu entry as known to the system.
// Price and Currency are either both set or both empty; an item with no
// price is still listable but cannot be invoiced.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// Priced reports whether the item carries a resolved price.
func (i CatalogItem) Priced() bool {
	return i.Price != "" && i.Currency != ""
}

// CatalogSnapshot is an immutable, timestamped, full copy of the remote
// catalog. It is replaced wholesale on every refresh.
type CatalogSnapshot struct {
	Items     []CatalogItem `json:"items"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// Age returns how old the snapshot is relative to now.
func (s *CatalogSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// ByID returns the item with the given id, if present.
func (s *CatalogSnapshot) ByID(id string) (CatalogItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CatalogItem{}, false
}
