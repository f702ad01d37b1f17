package api

import "context"

type contextKey int

const (
	ctxKeyRequestID contextKey = iota
	ctxKeyActorID
)

// RequestIDFromContext returns the id assigned by RequestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// ActorFromContext returns the authenticated user id, or "".
func ActorFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyActorID).(string)
	return id
}

func withActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyActorID, userID)
}
