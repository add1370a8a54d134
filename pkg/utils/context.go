package utils

import (
	"context"

	"flight-booking/internal/data/entity"
)

type contextKey string

const (
	ActorKey contextKey = "actor"
	TokenKey contextKey = "token"
)

// SetActorContext stores the authenticated caller for the handlers.
func SetActorContext(ctx context.Context, actor entity.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}

func GetActorFromContext(ctx context.Context) (entity.Actor, bool) {
	actor, ok := ctx.Value(ActorKey).(entity.Actor)
	return actor, ok
}

// GetTokenFromContext mendapatkan token dari context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
