package requestdata

import "context"

type traceDataKey struct{}

// TraceData carries the per-request correlation ids: the inbound (or
// generated) request id and the active OTel trace id when sampling is
// on.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	val := ctx.Value(traceDataKey{})
	if td, ok := val.(*TraceData); ok {
		return td
	}
	return nil
}
