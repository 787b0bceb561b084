package intent

import "strings"

// Category is a known menu category with its display glyph and the
// keyword synonyms that signal it in user text.
type Category struct {
	Name     string
	Glyph    string
	Keywords []string
}

// Categories is the closed set of menu categories, checked in order.
var Categories = []Category{
	{Name: "pizza", Glyph: "🍕", Keywords: []string{"pizza", "pizzas"}},
	{Name: "burrito", Glyph: "🌯", Keywords: []string{"burrito", "burito", "burritos", "buritos"}},
	{Name: "burger", Glyph: "🍔", Keywords: []string{"burger", "burgers", "cheeseburger", "cheeseburgers"}},
	{Name: "sandwich", Glyph: "🥪", Keywords: []string{"sandwich", "sandwiches", "blt", "club"}},
	{Name: "salad", Glyph: "🥗", Keywords: []string{"salad", "salads"}},
	{Name: "side", Glyph: "🍟", Keywords: []string{"fries", "side", "sides", "onion rings", "rings"}},
	{Name: "drink", Glyph: "🥤", Keywords: []string{"drink", "drinks", "soda", "lemonade", "shake", "shakes", "coffee", "beverage", "beverages"}},
	{Name: "dessert", Glyph: "🍰", Keywords: []string{"dessert", "desserts", "pie", "sundae", "brownie", "cookie", "cookies"}},
}

// DetectCategory returns the first category whose keyword appears in
// the text, or "" when none does.
func DetectCategory(text string) string {
	lower := strings.ToLower(text)
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.Name
			}
		}
	}
	return ""
}

// CategoryByToken returns the category whose keyword set contains the
// token exactly, or "" when none does.
func CategoryByToken(token string) string {
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			if token == kw {
				return c.Name
			}
		}
	}
	return ""
}

// CategoryTerms returns the keyword synonyms for a category name.
func CategoryTerms(name string) []string {
	for _, c := range Categories {
		if c.Name == name {
			return append([]string(nil), c.Keywords...)
		}
	}
	return nil
}

// CategoryGlyph returns the display glyph for a category name.
func CategoryGlyph(name string) string {
	for _, c := range Categories {
		if c.Name == name {
			return c.Glyph
		}
	}
	return ""
}
