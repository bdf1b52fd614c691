package requestdata

import (
	"context"
)

var requestDataKey = struct{}{}

// RequestData is the authenticated caller identity resolved from the
// bearer token, carried on the request context.
type RequestData struct {
	TokenString string
	UserID      int
	Username    string
	Email       string
	Role        string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	val := ctx.Value(requestDataKey)
	if rd, ok := val.(*RequestData); ok {
		return rd
	}
	return nil
}
