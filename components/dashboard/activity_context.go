package dashboard

import "context"

// ActivityContext identifies who performed a record mutation.
type ActivityContext struct {
	ActorID  string
	UserID   string
	TenantID string
}

type activityContextKey struct{}

// ContextWithActivity attaches actor details that delete and toggle events
// will carry.
func ContextWithActivity(ctx context.Context, meta ActivityContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, activityContextKey{}, meta)
}

func activityContextFrom(ctx context.Context) ActivityContext {
	if ctx == nil {
		return ActivityContext{}
	}
	meta, _ := ctx.Value(activityContextKey{}).(ActivityContext)
	return meta
}

// activityActor fills missing actor and user ids with the session viewer.
func activityActor(ctx context.Context, viewer ViewerContext) ActivityContext {
	meta := activityContextFrom(ctx)
	if meta.ActorID == "" {
		meta.ActorID = viewer.UserID
	}
	if meta.UserID == "" {
		meta.UserID = viewer.UserID
	}
	return meta
}
