package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	domainIDKey  ctxKey = "domain_id"
	requestIDKey ctxKey = "request_id"
)

// WithActor stores the authenticated caller identity in the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromCtx extracts the caller identity from the context.
// Returns "" and false if the value is missing or empty.
func ActorFromCtx(ctx context.Context) (string, bool) {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return "", false
	}
	return actor, true
}

// WithDomainID stores the authorized domain scope in the context.
func WithDomainID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, domainIDKey, id)
}

// DomainIDFromCtx extracts the authorized domain scope from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func DomainIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(domainIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
