// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyIdemKey ctxKey = "idempotency_key"

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// WithIdempotencyKey annotates context with a client-supplied idempotency key
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	if key != "" {
		ctx = context.WithValue(ctx, keyIdemKey, key)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// IdempotencyKey returns the idempotency key on the context if present
func IdempotencyKey(ctx context.Context) string {
	if v, ok := ctx.Value(keyIdemKey).(string); ok {
		return v
	}
	return ""
}
