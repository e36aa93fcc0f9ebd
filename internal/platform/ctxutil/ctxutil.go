// Package ctxutil carries per-request identity through context.Context.
package ctxutil

import (
	"context"
	"regexp"
)

type (
	traceDataKey  struct{}
	clientDataKey struct{}
)

// TraceData correlates log lines and upstream calls for one request.
type TraceData struct {
	TraceID   string
	RequestID string
}

// ClientData identifies the browser or CLI install a request belongs to.
// Server-side history is partitioned by ClientID.
type ClientData struct {
	ClientID  string
	Generated bool
}

// Client ids become part of storage keys, so only a conservative alphabet is accepted.
var clientIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// ValidClientID reports whether id may be used as a client id as sent.
func ValidClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(Default(ctx), traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	return lookup[TraceData](ctx, traceDataKey{})
}

func WithClientData(ctx context.Context, cd *ClientData) context.Context {
	return context.WithValue(Default(ctx), clientDataKey{}, cd)
}

func GetClientData(ctx context.Context) *ClientData {
	return lookup[ClientData](ctx, clientDataKey{})
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func lookup[T any](ctx context.Context, key any) *T {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(key).(*T)
	return v
}
