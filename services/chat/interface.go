package chat

import (
	"context"

	"savoria/models"
	"savoria/services/catalog"
	"savoria/services/intent"
	"savoria/services/paypal"

	"go.uber.org/zap"
)

// Invoicer is the slice of the payment provider the order sub-flow
// needs: create an invoice and email its payment link.
type Invoicer interface {
	CreateAndSendInvoice(ctx context.Context, recipientEmail string, lines []paypal.InvoiceLine, currency string) (string, error)
}

// Service handles one conversational turn: utterance in, reply out.
// History is read-only here; the transport layer appends the new turns
// after the call returns.
type Service interface {
	HandleTurn(ctx context.Context, sessionID, message string, history []models.Turn) (string, error)
}

// DefaultChatService implements Service as an ordered stage pipeline
// over the catalog cache, fuzzy matcher, intent resolver and session
// store.
type DefaultChatService struct {
	Resolver intent.Resolver
	Catalog  *catalog.Cache
	Matcher  *catalog.Matcher
	Sessions SessionStore
	Invoicer Invoicer
	Logger   *zap.Logger
}
