package intent

import (
	"context"
	"time"

	"savoria/models"

	"go.uber.org/zap"
)

// classifierTimeout bounds the remote classification call; on expiry
// the resolver degrades to the fallback rules.
const classifierTimeout = 10 * time.Second

// Classifier is the remote intent-classification oracle. It returns raw
// response text to be parsed by ParseRecord.
type Classifier interface {
	Classify(ctx context.Context, message string, history []models.Turn) (string, error)
}

// Resolver turns an utterance plus truncated history into an
// IntentRecord. Resolution never fails: classifier errors surface as a
// fallback-resolved record, not as an error to the caller.
type Resolver interface {
	Resolve(ctx context.Context, message string, history []models.Turn) models.IntentRecord
}

// DefaultResolver implements Resolver over an optional remote
// classifier with the deterministic rule cascade as its safety net.
type DefaultResolver struct {
	Classifier Classifier
	Logger     *zap.Logger
}

// NewDefaultResolver builds a resolver. A nil classifier is valid and
// means fallback-only resolution.
func NewDefaultResolver(classifier Classifier, logger *zap.Logger) *DefaultResolver {
	return &DefaultResolver{Classifier: classifier, Logger: logger}
}

func (r *DefaultResolver) Resolve(ctx context.Context, message string, history []models.Turn) models.IntentRecord {
	if r.Classifier == nil {
		return Fallback(message)
	}

	cctx, cancel := context.WithTimeout(ctx, classifierTimeout)
	defer cancel()

	raw, err := r.Classifier.Classify(cctx, message, history)
	if err != nil {
		r.Logger.Warn("intent classifier unavailable, using fallback rules", zap.Error(err))
		return Fallback(message)
	}

	rec, err := ParseRecord(raw)
	if err != nil {
		r.Logger.Warn("intent classifier response unusable, using fallback rules", zap.Error(err))
		return Fallback(message)
	}
	return rec
}
