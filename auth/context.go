package auth

import (
	"context"

	"recipe-service/models"
)

type contextKey string

const actorKey contextKey = "actor"

// WithActor returns a copy of ctx carrying the authenticated user.
func WithActor(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, actorKey, user)
}

// ActorFromContext returns the user bound by Gate.Require.
func ActorFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(actorKey).(*models.User)
	return user, ok && user != nil
}
