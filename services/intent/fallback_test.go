package intent

import (
	"testing"

	"savoria/models"

	"github.com/stretchr/testify/assert"
)

func TestFallbackCascade(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    models.IntentRecord
	}{
		{
			name:    "pizza menu phrasing",
			message: "what pizzas do you have",
			want:    models.IntentRecord{Intent: models.IntentPizzaTypes, Category: "pizza"},
		},
		{
			name:    "price of a named product",
			message: "price of margherita pizza",
			want: models.IntentRecord{
				Intent:      models.IntentPriceQuery,
				ProductName: "margherita pizza",
				Category:    "pizza",
			},
		},
		{
			name:    "how much with articles stripped",
			message: "how much is the veggie burrito?",
			want: models.IntentRecord{
				Intent:      models.IntentPriceQuery,
				ProductName: "veggie burrito",
				Category:    "burrito",
			},
		},
		{
			name:    "informational phrasing",
			message: "tell me about the pepperoni pizza",
			want: models.IntentRecord{
				Intent:      models.IntentProductInfo,
				ProductName: "pepperoni pizza",
				Category:    "pizza",
			},
		},
		{
			name:    "info phrasing with price keyword falls through to price rule",
			message: "what is the price of garden salad",
			want: models.IntentRecord{
				Intent:      models.IntentPriceQuery,
				ProductName: "garden salad",
				Category:    "salad",
			},
		},
		{
			name:    "listing phrasing with category",
			message: "show me all your burgers",
			want: models.IntentRecord{
				Intent:      models.IntentListProducts,
				Category:    "burger",
				SearchTerms: []string{"burger", "burgers", "cheeseburger", "cheeseburgers"},
			},
		},
		{
			name:    "bare category token",
			message: "burritos",
			want: models.IntentRecord{
				Intent:      models.IntentListProducts,
				Category:    "burrito",
				SearchTerms: []string{"burrito", "burito", "burritos", "buritos"},
			},
		},
		{
			name:    "suggestion phrasing",
			message: "can you recommend a drink for dinner",
			want:    models.IntentRecord{Intent: models.IntentSuggest, Category: "drink"},
		},
		{
			name:    "specific pizza mention implies price",
			message: "i want to try that famous hawaiian pizza today",
			want: models.IntentRecord{
				Intent:      models.IntentPriceQuery,
				ProductName: "hawaiian pizza",
				Category:    "pizza",
			},
		},
		{
			name:    "bare pizza mention without a kind",
			message: "feeling like eating one of your pizzas tonight maybe",
			want:    models.IntentRecord{Intent: models.IntentPizzaTypes, Category: "pizza"},
		},
		{
			name:    "greeting is not an intent",
			message: "hello there friend, nice day huh",
			want:    models.IntentRecord{Intent: models.IntentOther},
		},
		{
			name:    "empty message",
			message: "   ",
			want:    models.IntentRecord{Intent: models.IntentOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fallback(tt.message)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFallbackIsDeterministic(t *testing.T) {
	messages := []string{
		"price of margherita pizza",
		"show me the menu",
		"hello",
		"how much is a cheeseburger",
	}
	for _, msg := range messages {
		first := Fallback(msg)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Fallback(msg), "message %q", msg)
		}
	}
}

func TestDetectCategoryHandlesCommonMisspelling(t *testing.T) {
	assert.Equal(t, "burrito", DetectCategory("one burito please"))
	assert.Equal(t, "", DetectCategory("nothing on the list"))
}
