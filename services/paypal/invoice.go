package paypal

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// InvoiceLine is one line item on an outgoing invoice.
type InvoiceLine struct {
	Name       string `json:"name"`
	Quantity   string `json:"quantity"`
	UnitAmount Money  `json:"unit_amount"`
}

// NewInvoiceLine builds a line from a catalog item's resolved price.
func NewInvoiceLine(name string, quantity int, price, currency string) InvoiceLine {
	return InvoiceLine{
		Name:       name,
		Quantity:   strconv.Itoa(quantity),
		UnitAmount: Money{Value: price, CurrencyCode: currency},
	}
}

type createInvoiceRequest struct {
	Detail struct {
		CurrencyCode string `json:"currency_code"`
	} `json:"detail"`
	PrimaryRecipients []struct {
		BillingInfo struct {
			EmailAddress string `json:"email_address"`
		} `json:"billing_info"`
	} `json:"primary_recipients"`
	Items []InvoiceLine `json:"items"`
}

type createInvoiceResponse struct {
	ID string `json:"id"`
}

// CreateInvoice creates a draft invoice addressed to the recipient and
// returns its id.
func (c *Client) CreateInvoice(ctx context.Context, recipientEmail string, lines []InvoiceLine, currency string) (string, error) {
	var req createInvoiceRequest
	req.Detail.CurrencyCode = currency
	req.PrimaryRecipients = make([]struct {
		BillingInfo struct {
			EmailAddress string `json:"email_address"`
		} `json:"billing_info"`
	}, 1)
	req.PrimaryRecipients[0].BillingInfo.EmailAddress = recipientEmail
	req.Items = lines

	var out createInvoiceResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v2/invoicing/invoices", nil, req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("no invoice id returned")
	}
	return out.ID, nil
}

// SendInvoice emails the created invoice to its recipient.
func (c *Client) SendInvoice(ctx context.Context, invoiceID string) error {
	return c.doJSON(ctx, http.MethodPost, "/v2/invoicing/invoices/"+invoiceID+"/send", nil, struct{}{}, nil)
}

// CreateAndSendInvoice runs the two-step create-then-send sequence.
// Send is only attempted after a successful create; either failure
// fails the whole operation.
func (c *Client) CreateAndSendInvoice(ctx context.Context, recipientEmail string, lines []InvoiceLine, currency string) (string, error) {
	id, err := c.CreateInvoice(ctx, recipientEmail, lines, currency)
	if err != nil {
		return "", fmt.Errorf("create invoice: %w", err)
	}
	if err := c.SendInvoice(ctx, id); err != nil {
		return id, fmt.Errorf("send invoice: %w", err)
	}
	return id, nil
}
