package shared

import "context"

type contextKey string

const actorKey contextKey = "actor"

// ContextWithActor stores the acting user's id on the context.
func ContextWithActor(ctx context.Context, actorID int64) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorFromContext returns the acting user's id, if one was attached.
func ActorFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(actorKey).(int64)
	return id, ok
}
