package chat

import (
	"fmt"
	"sort"
	"strings"

	"savoria/models"
)

// maxShownItems caps how many items any single reply lists.
const maxShownItems = 8

// splitPriced divides items into priced and unpriced groups, each
// sorted alphabetically by name.
func splitPriced(items []models.CatalogItem) (priced, unpriced []models.CatalogItem) {
	for _, it := range items {
		if it.Priced() {
			priced = append(priced, it)
		} else {
			unpriced = append(unpriced, it)
		}
	}
	sortByName(priced)
	sortByName(unpriced)
	return priced, unpriced
}

func sortByName(items []models.CatalogItem) {
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

func formatItemLine(it models.CatalogItem) string {
	if it.Priced() {
		return fmt.Sprintf("• %s: %s %s", it.Name, it.Price, it.Currency)
	}
	return fmt.Sprintf("• %s: Price not set", it.Name)
}

// renderItemBlock produces the standard itemized reply: a count
// header, priced rows first, unpriced names filling the remaining
// slots, and a "+N more" trailer when truncated. Deterministic for
// identical inputs.
func renderItemBlock(title string, priced, unpriced []models.CatalogItem, max int) string {
	total := len(priced) + len(unpriced)
	if total == 0 {
		return ""
	}

	var lines []string
	for _, it := range priced {
		if len(lines) >= max {
			break
		}
		lines = append(lines, formatItemLine(it))
	}
	for _, it := range unpriced {
		if len(lines) >= max {
			break
		}
		lines = append(lines, formatItemLine(it))
	}

	out := fmt.Sprintf("%s (%d found):\n%s", title, total, strings.Join(lines, "\n"))
	if total > len(lines) {
		out += fmt.Sprintf("\n+%d more", total-len(lines))
	}
	return out
}

// renderOptionList shows candidate items, deduplicated
// case-insensitively by name, with the price when known.
func renderOptionList(title string, items []models.CatalogItem, max int) string {
	var lines []string
	seen := make(map[string]struct{})
	for _, it := range items {
		low := strings.ToLower(it.Name)
		if _, dup := seen[low]; dup {
			continue
		}
		seen[low] = struct{}{}
		lines = append(lines, formatItemLine(it))
		if len(lines) >= max {
			break
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return fmt.Sprintf("%s:\n%s", title, strings.Join(lines, "\n"))
}

// renderNameList shows bare candidate names, one per bullet.
func renderNameList(title string, names []string) string {
	if len(names) == 0 {
		return ""
	}
	var lines []string
	for _, n := range names {
		lines = append(lines, "• "+n)
	}
	return fmt.Sprintf("%s:\n%s", title, strings.Join(lines, "\n"))
}
