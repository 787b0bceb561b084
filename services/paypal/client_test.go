package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer wraps httptest with the token endpoint always available
// and counts how often the token is exchanged.
type testServer struct {
	*httptest.Server
	tokenHits int
	client    *Client
}

func newTestServer(t *testing.T, handler http.HandlerFunc) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/oauth2/token" {
			ts.tokenHits++
			user, pass, ok := r.BasicAuth()
			require.True(t, ok, "token exchange must use basic auth")
			assert.Equal(t, "client-id", user)
			assert.Equal(t, "client-secret", pass)
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"test-token","expires_in":3600}`)
			return
		}
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	ts.client = NewClient(ts.URL, "client-id", "client-secret")
	return ts
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestAccessTokenIsCached(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"products": []any{}})
	})
	ctx := context.Background()

	_, _, err := ts.client.ListProducts(ctx, 20, 1)
	require.NoError(t, err)
	_, _, err = ts.client.ListProducts(ctx, 20, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, ts.tokenHits, "second call must reuse the cached token")
}

func TestAccessTokenRefreshedNearExpiry(t *testing.T) {
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"products": []any{}})
	})
	ctx := context.Background()

	base := time.Now()
	ts.client.now = func() time.Time { return base }
	_, _, err := ts.client.ListProducts(ctx, 20, 1)
	require.NoError(t, err)
	require.Equal(t, 1, ts.tokenHits)

	// Advance to just inside the expiry margin: the advertised hour
	// minus the safety margin has elapsed, so the token is re-fetched.
	ts.client.now = func() time.Time { return base.Add(time.Hour - 30*time.Second) }
	_, _, err = ts.client.ListProducts(ctx, 20, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ts.tokenHits)
}

func TestListAllProductsPagination(t *testing.T) {
	var pagesServed []string
	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		products := make([]Product, 0)
		switch page {
		case "1":
			for i := 0; i < 20; i++ {
				products = append(products, Product{ID: fmt.Sprintf("p1-%d", i), Name: "Item"})
			}
		case "2":
			for i := 0; i < 5; i++ {
				products = append(products, Product{ID: fmt.Sprintf("p2-%d", i), Name: "Item"})
			}
		}
		writeJSON(w, map[string]any{"products": products, "total_items": 25})
	})

	all, err := ts.client.ListAllProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 25)
	assert.Equal(t, []string{"1", "2"}, pagesServed, "walk stops once the page count implied by the total is reached")
}

func TestListAllProductsPartialFailure(t *testing.T) {
	t.Run("error on the first page fails the walk", func(t *testing.T) {
		ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusBadGateway)
		})
		_, err := ts.client.ListAllProducts(context.Background())
		assert.Error(t, err)
	})

	t.Run("error on a later page keeps what was gathered", func(t *testing.T) {
		ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				http.Error(w, `{"error":"boom"}`, http.StatusBadGateway)
				return
			}
			products := make([]Product, 20)
			for i := range products {
				products[i] = Product{ID: fmt.Sprintf("p%d", i), Name: "Item"}
			}
			writeJSON(w, map[string]any{"products": products})
		})
		all, err := ts.client.ListAllProducts(context.Background())
		require.NoError(t, err)
		assert.Len(t, all, 20)
	})
}

func TestBestPlanPrice(t *testing.T) {
	planDetails := map[string]planDetailResponse{}
	addPlan := func(id, status, price, currency string) {
		d := planDetailResponse{ID: id, Status: status}
		d.BillingCycles = make([]struct {
			TenureType    string `json:"tenure_type"`
			PricingScheme struct {
				FixedPrice struct {
					Value        string `json:"value"`
					CurrencyCode string `json:"currency_code"`
				} `json:"fixed_price"`
			} `json:"pricing_scheme"`
		}, 1)
		d.BillingCycles[0].TenureType = "REGULAR"
		d.BillingCycles[0].PricingScheme.FixedPrice.Value = price
		d.BillingCycles[0].PricingScheme.FixedPrice.CurrencyCode = currency
		planDetails[id] = d
	}

	ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/billing/plans" {
			plans := make([]map[string]string, 0, len(planDetails))
			for id, d := range planDetails {
				plans = append(plans, map[string]string{"id": id, "status": d.Status})
			}
			writeJSON(w, map[string]any{"plans": plans})
			return
		}
		id := r.URL.Path[len("/v1/billing/plans/"):]
		writeJSON(w, planDetails[id])
	})
	ctx := context.Background()

	t.Run("active beats cheaper inactive", func(t *testing.T) {
		planDetails = map[string]planDetailResponse{}
		addPlan("cheap-inactive", "INACTIVE", "5.00", "USD")
		addPlan("active", "ACTIVE", "9.00", "USD")

		best, err := ts.client.BestPlanPrice(ctx, "prod-1")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, "9.00", best.Value)
		assert.Equal(t, "ACTIVE", best.Status)
	})

	t.Run("lowest numeric price wins within a status", func(t *testing.T) {
		planDetails = map[string]planDetailResponse{}
		addPlan("pricier", "ACTIVE", "14.50", "USD")
		addPlan("cheaper", "ACTIVE", "12.99", "USD")

		best, err := ts.client.BestPlanPrice(ctx, "prod-1")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Equal(t, "12.99", best.Value)
	})

	t.Run("unparsable price loses and yields an empty value", func(t *testing.T) {
		planDetails = map[string]planDetailResponse{}
		addPlan("garbled", "ACTIVE", "twelve", "USD")

		best, err := ts.client.BestPlanPrice(ctx, "prod-1")
		require.NoError(t, err)
		require.NotNil(t, best)
		assert.Empty(t, best.Value)
		assert.Equal(t, "ACTIVE", best.Status)
	})

	t.Run("no plans at all", func(t *testing.T) {
		planDetails = map[string]planDetailResponse{}

		best, err := ts.client.BestPlanPrice(ctx, "prod-1")
		require.NoError(t, err)
		assert.Nil(t, best)
	})
}

func TestCreateAndSendInvoice(t *testing.T) {
	t.Run("create then send", func(t *testing.T) {
		var calls []string
		var created createInvoiceRequest
		ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.Method+" "+r.URL.Path)
			switch r.URL.Path {
			case "/v2/invoicing/invoices":
				require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
				writeJSON(w, map[string]string{"id": "INV-42"})
			case "/v2/invoicing/invoices/INV-42/send":
				w.WriteHeader(http.StatusAccepted)
			default:
				http.NotFound(w, r)
			}
		})

		lines := []InvoiceLine{NewInvoiceLine("Margherita Pizza", 2, "12.99", "USD")}
		id, err := ts.client.CreateAndSendInvoice(context.Background(), "guest@example.com", lines, "USD")
		require.NoError(t, err)
		assert.Equal(t, "INV-42", id)
		assert.Equal(t, []string{
			"POST /v2/invoicing/invoices",
			"POST /v2/invoicing/invoices/INV-42/send",
		}, calls)

		assert.Equal(t, "USD", created.Detail.CurrencyCode)
		require.Len(t, created.PrimaryRecipients, 1)
		assert.Equal(t, "guest@example.com", created.PrimaryRecipients[0].BillingInfo.EmailAddress)
		require.Len(t, created.Items, 1)
		assert.Equal(t, "2", created.Items[0].Quantity)
		assert.Equal(t, "12.99", created.Items[0].UnitAmount.Value)
	})

	t.Run("create failure skips send", func(t *testing.T) {
		var sendCalled bool
		ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/invoicing/invoices" {
				http.Error(w, `{"error":"nope"}`, http.StatusUnprocessableEntity)
				return
			}
			sendCalled = true
		})

		_, err := ts.client.CreateAndSendInvoice(context.Background(), "guest@example.com", nil, "USD")
		require.Error(t, err)
		assert.False(t, sendCalled)
	})

	t.Run("send failure surfaces after create", func(t *testing.T) {
		ts := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/v2/invoicing/invoices" {
				writeJSON(w, map[string]string{"id": "INV-43"})
				return
			}
			http.Error(w, `{"error":"mail down"}`, http.StatusBadGateway)
		})

		id, err := ts.client.CreateAndSendInvoice(context.Background(), "guest@example.com", nil, "USD")
		require.Error(t, err)
		assert.Equal(t, "INV-43", id)
		assert.ErrorContains(t, err, "send invoice")
	})
}
