// Package ctxutil carries request-scoped values: trace IDs and the
// authenticated user resolved by the auth middleware.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	// TraceIDKey is the context key for the request trace ID.
	TraceIDKey contextKey = "trace_id"
	userKey    contextKey = "current_user"
	tokenKey   contextKey = "token"
	tokenIDKey contextKey = "token_id"
)

// GetTraceID gets a trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets a trace ID to the context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}

// SetUserID stores the verified user ID in the context.
func SetUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey, id)
}

// GetUserID returns the verified user ID, or "" when the request is anonymous.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userKey).(string); ok {
		return id
	}
	return ""
}

// SetToken stores the raw bearer token presented with the request.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetToken returns the raw bearer token presented with the request.
func GetToken(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey).(string); ok {
		return t
	}
	return ""
}

// SetTokenID stores the token's jti claim in the context.
func SetTokenID(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, tokenIDKey, jti)
}

// GetTokenID returns the token's jti claim, or "".
func GetTokenID(ctx context.Context) string {
	if jti, ok := ctx.Value(tokenIDKey).(string); ok {
		return jti
	}
	return ""
}
