package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// callContextKey is the key for CallContext in context.Context
var callContextKey = contextKey{}

// CallContext holds request-scoped logging context for one RPC dispatch
type CallContext struct {
	Method     string    // Echo method name (test_bool, test_uint32, ...)
	Instance   string    // Service instance the call was addressed to
	ClientAddr string    // Remote address of the caller (without port)
	SessionID  uint16    // Session identifier from the request header
	StartTime  time.Time // For duration calculation
}

// WithContext returns a new context with the given CallContext
func WithContext(ctx context.Context, cc *CallContext) context.Context {
	return context.WithValue(ctx, callContextKey, cc)
}

// FromContext retrieves the CallContext from context, or nil if not present
func FromContext(ctx context.Context) *CallContext {
	if ctx == nil {
		return nil
	}
	cc, _ := ctx.Value(callContextKey).(*CallContext)
	return cc
}

// NewCallContext creates a new CallContext with the given client address
func NewCallContext(clientAddr string) *CallContext {
	return &CallContext{
		ClientAddr: clientAddr,
		StartTime:  time.Now(),
	}
}
