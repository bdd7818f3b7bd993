package llm

import "context"

type purposeKey struct{}

// Purposes recorded on request events.
const (
	PurposeAnalyze      = "analyze"
	PurposeBatchAnalyze = "batch-analyze"
	PurposeSimilar      = "similar-question"
	PurposeReanswer     = "reanswer"
)

// WithPurpose labels requests made with ctx for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose label on ctx, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := purposeOf(ctx); p != "" {
		return p
	}
	return "unknown"
}

func purposeOf(ctx context.Context) string {
	v, _ := ctx.Value(purposeKey{}).(string)
	return v
}
