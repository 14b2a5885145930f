package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type contextKey string

const trainerIDKey contextKey = "trainerID"

var errUnauthorized = errors.New("unauthorized")

// ContextWithTrainerID returns a new context with the given trainer ID set.
// This is intended for use in tests and middleware.
func ContextWithTrainerID(ctx context.Context, trainerID uuid.UUID) context.Context {
	return context.WithValue(ctx, trainerIDKey, trainerID)
}

func GetTrainerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	v := ctx.Value(trainerIDKey)
	if v == nil {
		return uuid.Nil, errUnauthorized
	}

	switch id := v.(type) {
	case uuid.UUID:
		return id, nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return uuid.Nil, errUnauthorized
		}
		return parsed, nil
	default:
		return uuid.Nil, errUnauthorized
	}
}
