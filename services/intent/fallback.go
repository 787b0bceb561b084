package intent

import (
	"regexp"
	"strings"

	"savoria/models"
)

// Keyword sets for the deterministic rule cascade. Ordered
// most-specific-first; only the first matching rule fires.
var (
	infoPhrases = []string{
		"tell me about", "what is", "what's", "describe",
		"info about", "information about",
	}
	pizzaMenuPhrases = []string{
		"pizza types", "what pizzas", "which pizzas", "pizza menu",
		"types of pizza", "kinds of pizza", "pizza options",
	}
	listPhrases = []string{
		"list", "show all", "show me", "menu", "catalog",
		"what do you have", "what's available", "whats available",
		"what do you sell", "everything you have",
	}
	suggestPhrases = []string{
		"suggest", "recommend", "what else", "something else",
		"any other", "anything else",
	}
	priceKeywords = []string{"price", "cost", "how much"}

	articles   = []string{"the ", "a ", "an "}
	priceLeads = []string{"of ", "for ", "is ", "are ", "does ", "do "}
)

var (
	tokenRe         = regexp.MustCompile(`[a-z]+`)
	specificPizzaRe = regexp.MustCompile(`\b([a-z]+)\s+pizzas?\b`)
)

// pizzaNameStop are words that never name a specific pizza when they
// precede "pizza" in an utterance.
var pizzaNameStop = map[string]struct{}{
	"a": {}, "the": {}, "any": {}, "some": {}, "your": {}, "of": {},
	"more": {}, "other": {}, "which": {}, "what": {}, "every": {},
	"all": {}, "that": {}, "this": {},
}

// Fallback resolves an utterance with deterministic keyword rules. It
// is a pure function of the message: no network, no hidden state.
func Fallback(message string) models.IntentRecord {
	lower := strings.ToLower(strings.TrimSpace(message))
	if lower == "" {
		return models.IntentRecord{Intent: models.IntentOther}
	}

	// a. Informational phrasing with a trailing subject.
	for _, phrase := range infoPhrases {
		idx := strings.Index(lower, phrase)
		if idx < 0 {
			continue
		}
		trail := cleanTrailing(lower[idx+len(phrase):])
		if trail == "" || containsAny(trail, priceKeywords) {
			continue
		}
		return models.IntentRecord{
			Intent:      models.IntentProductInfo,
			ProductName: trail,
			Category:    DetectCategory(lower),
		}
	}

	// b. Pizza-menu phrasing.
	if containsAny(lower, pizzaMenuPhrases) {
		return models.IntentRecord{Intent: models.IntentPizzaTypes, Category: "pizza"}
	}

	// c. General listing phrasing.
	if containsAny(lower, listPhrases) {
		rec := models.IntentRecord{Intent: models.IntentListProducts}
		if cat := DetectCategory(lower); cat != "" {
			rec.Category = cat
			rec.SearchTerms = CategoryTerms(cat)
		}
		return rec
	}

	// d. Short input naming a known category.
	tokens := tokenRe.FindAllString(lower, -1)
	if len(tokens) >= 1 && len(tokens) <= 3 {
		for _, tok := range tokens {
			if cat := CategoryByToken(tok); cat != "" {
				return models.IntentRecord{
					Intent:      models.IntentListProducts,
					Category:    cat,
					SearchTerms: CategoryTerms(cat),
				}
			}
		}
	}

	// e. Suggestion phrasing.
	if containsAny(lower, suggestPhrases) {
		return models.IntentRecord{Intent: models.IntentSuggest, Category: DetectCategory(lower)}
	}

	// f. Price phrasing.
	for _, kw := range priceKeywords {
		idx := strings.Index(lower, kw)
		if idx < 0 {
			continue
		}
		name := cleanTrailing(stripLeads(lower[idx+len(kw):]))
		cat := DetectCategory(lower)
		if name == "" && cat == "pizza" {
			name = "pizza"
		}
		return models.IntentRecord{
			Intent:      models.IntentPriceQuery,
			ProductName: name,
			Category:    cat,
		}
	}

	// g. Bare pizza mention.
	if strings.Contains(lower, "pizza") {
		name := specificPizzaName(lower)
		seekingInfo := strings.Contains(lower, "about") || strings.Contains(lower, "describe")
		switch {
		case seekingInfo && name != "":
			return models.IntentRecord{Intent: models.IntentProductInfo, ProductName: name, Category: "pizza"}
		case seekingInfo:
			return models.IntentRecord{Intent: models.IntentProductInfo, ProductName: "pizza", Category: "pizza"}
		case name != "":
			return models.IntentRecord{Intent: models.IntentPriceQuery, ProductName: name, Category: "pizza"}
		default:
			return models.IntentRecord{Intent: models.IntentPizzaTypes, Category: "pizza"}
		}
	}

	// h. Default.
	return models.IntentRecord{Intent: models.IntentOther}
}

// cleanTrailing trims punctuation and leading articles from extracted
// entity text.
func cleanTrailing(s string) string {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "?!.,:;"))
	for changed := true; changed; {
		changed = false
		for _, art := range articles {
			if strings.HasPrefix(s, art) {
				s = strings.TrimSpace(strings.TrimPrefix(s, art))
				changed = true
			}
		}
	}
	return s
}

// stripLeads drops connective words after a price keyword, e.g.
// "price of X", "how much is X".
func stripLeads(s string) string {
	s = strings.TrimSpace(s)
	for changed := true; changed; {
		changed = false
		for _, lead := range priceLeads {
			if strings.HasPrefix(s, lead) {
				s = strings.TrimSpace(strings.TrimPrefix(s, lead))
				changed = true
			}
		}
	}
	return s
}

// specificPizzaName extracts "<kind> pizza" when the word before
// "pizza" plausibly names a kind.
func specificPizzaName(lower string) string {
	m := specificPizzaRe.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	if _, stop := pizzaNameStop[m[1]]; stop {
		return ""
	}
	return m[1] + " pizza"
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
