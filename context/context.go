package context

import (
	"context"
	"time"
)

const (
	ContextKeyCorrelationID ContextKey = "Correlation-Id"
	ContextKeyEmail         ContextKey = "Token-Email"
	ContextKeyClaims        ContextKey = "Token-Claims"
	DefaultHttpTimeout                 = 30 * time.Second
)

type ContextKey string

func NewContextWithTimeOut(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func NewContext(correlationID string) context.Context {
	return context.WithValue(context.Background(), ContextKeyCorrelationID, correlationID)
}

func SetContextWithValue(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func GetContextValue(ctx context.Context, key ContextKey) string {
	reqID := ctx.Value(key)
	if reqID != nil {
		if ret, ok := reqID.(string); ok {
			return ret
		}
	}
	return ""
}

// SetContextClaims stores the claim set of the authenticated caller.
func SetContextClaims(ctx context.Context, claims map[string]string) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

func GetContextClaims(ctx context.Context) map[string]string {
	v := ctx.Value(ContextKeyClaims)
	if v != nil {
		if claims, ok := v.(map[string]string); ok {
			return claims
		}
	}
	return nil
}
