package models

// Intent is the classified purpose of a user utterance. The set is
// closed: classifier responses carrying any other kind are rejected at
// the parsing boundary.
type Intent string

const (
	IntentPriceQuery   Intent = "price_query"
	IntentListProducts Intent = "list_products"
	IntentPizzaTypes   Intent = "pizza_types"
	IntentProductInfo  Intent = "product_info"
	IntentSuggest      Intent = "suggest"
	IntentOther        Intent = "other"
)

// Valid reports whether the intent is one of the six known kinds.
func (i Intent) Valid() bool {
	switch i {
	case IntentPriceQuery, IntentListProducts, IntentPizzaTypes,
		IntentProductInfo, IntentSuggest, IntentOther:
		return true
	}
	return false
}

// IntentRecord is the structured output of intent resolution.
type IntentRecord struct {
	Intent      Intent   `json:"intent"`
	ProductName string   `json:"product_name,omitempty"`
	Category    string   `json:"category,omitempty"`
	SearchTerms []string `json:"search_terms,omitempty"`
}
