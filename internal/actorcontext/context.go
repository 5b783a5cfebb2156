package actorcontext

import "context"

type contextKey string

const (
	actorTypeKey contextKey = "actor_type"
	actorIDKey   contextKey = "actor_id"
	requestIDKey contextKey = "request_id"
)

const (
	ActorOwner    = "owner"
	ActorReseller = "reseller"
	ActorSystem   = "system"
)

// WithActor attaches the authenticated actor identity to the context. The
// identity is injected by the auth collaborator in front of this service.
func WithActor(ctx context.Context, actorType, actorID string) context.Context {
	ctx = context.WithValue(ctx, actorTypeKey, actorType)
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorFromContext returns the actor identity, defaulting to the owner
// role when nothing was injected.
func ActorFromContext(ctx context.Context) (actorType, actorID string) {
	if ctx == nil {
		return ActorOwner, ""
	}
	actorType, _ = ctx.Value(actorTypeKey).(string)
	actorID, _ = ctx.Value(actorIDKey).(string)
	if actorType == "" {
		actorType = ActorOwner
	}
	return actorType, actorID
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
