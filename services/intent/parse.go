package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"savoria/models"
)

// classifierRecord mirrors the JSON payload the classifier is
// instructed to return.
type classifierRecord struct {
	Intent      string   `json:"intent"`
	ProductName string   `json:"product_name"`
	Category    string   `json:"category"`
	SearchTerms []string `json:"search_terms"`
}

// ParseRecord parses a classifier response into an IntentRecord. The
// payload must be strict JSON, possibly wrapped in code-fence markers;
// unknown intent kinds are rejected here so malformed output degrades
// to the fallback rather than leaking odd intents downstream.
func ParseRecord(raw string) (models.IntentRecord, error) {
	payload := stripCodeFences(raw)
	if payload == "" {
		return models.IntentRecord{}, fmt.Errorf("empty classifier response")
	}

	var rec classifierRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return models.IntentRecord{}, fmt.Errorf("classifier response is not valid JSON: %w", err)
	}

	kind := models.Intent(strings.ToLower(strings.TrimSpace(rec.Intent)))
	if !kind.Valid() {
		return models.IntentRecord{}, fmt.Errorf("unknown intent kind %q", rec.Intent)
	}

	out := models.IntentRecord{
		Intent:      kind,
		ProductName: strings.TrimSpace(rec.ProductName),
		Category:    strings.ToLower(strings.TrimSpace(rec.Category)),
	}
	for _, term := range rec.SearchTerms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out.SearchTerms = append(out.SearchTerms, term)
		}
	}
	return out, nil
}

// stripCodeFences removes ``` / ```json wrappers the model sometimes
// adds around the JSON body.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
