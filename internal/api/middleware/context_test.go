package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrainerIDFromContext(t *testing.T) {
	t.Run("uuid value", func(t *testing.T) {
		id := uuid.New()
		ctx := ContextWithTrainerID(context.Background(), id)

		got, err := GetTrainerIDFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("string value", func(t *testing.T) {
		id := uuid.New()
		ctx := context.WithValue(context.Background(), trainerIDKey, id.String())

		got, err := GetTrainerIDFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := GetTrainerIDFromContext(context.Background())
		assert.Error(t, err)
	})

	t.Run("garbage string", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), trainerIDKey, "not-a-uuid")
		_, err := GetTrainerIDFromContext(ctx)
		assert.Error(t, err)
	})
}
