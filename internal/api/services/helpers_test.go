package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"genetix/internal/domain"
	"genetix/internal/repository"
	"genetix/internal/testutil"
)

var battleIDSeq atomic.Uint64

// nextBattleID hands out ids unique across the test binary and across
// reruns against the same database.
func nextBattleID() uint64 {
	return uint64(time.Now().UnixNano()) + battleIDSeq.Add(1)
}

func setupTestRedis(t *testing.T) *goredis.Client {
	t.Helper()
	s := miniredis.RunT(t)
	return goredis.NewClient(&goredis.Options{Addr: s.Addr()})
}

func createTrainer(t *testing.T, prefix string) *domain.Trainer {
	t.Helper()
	ts := time.Now().UnixNano()
	trainer := &domain.Trainer{
		Username: fmt.Sprintf("%s%d", prefix, ts),
		Email:    fmt.Sprintf("%s%d@test.com", prefix, ts),
		Password: "pass",
	}
	require.NoError(t, repository.NewTrainerRepository(testDB).Create(trainer))
	return trainer
}

// ensurePlatform initializes the platform singleton on first use and hands
// back the current state plus the admin id.
func ensurePlatform(t *testing.T) (*domain.Platform, uuid.UUID) {
	t.Helper()
	testutil.RequireDB(t, testDB)

	svc := NewPlatformService(testDB)
	platform, err := svc.Get(context.Background())
	if err == ErrNotInitialized {
		admin := createTrainer(t, "admin")
		platform, err = svc.Initialize(context.Background(), admin.ID, 500)
	}
	require.NoError(t, err)
	return platform, platform.Admin
}

func fundTrainer(t *testing.T, admin, trainerID uuid.UUID, amount uint64) {
	t.Helper()
	require.NoError(t, NewPlatformService(testDB).Reward(context.Background(), admin, trainerID, amount))
}

func createTemplate(t *testing.T, admin uuid.UUID, price uint64) *domain.CreatureTemplate {
	t.Helper()
	template, err := NewPlatformService(testDB).AddTemplate(context.Background(), admin, AddTemplateInput{
		TemplateID: nextBattleID(),
		Name:       "Testling",
		BaseURI:    "https://assets.test/template.json",
		Price:      price,
		Stats:      domain.Stats{HP: 50, Attack: 40, Defense: 30, Speed: 60},
	})
	require.NoError(t, err)
	return template
}

// mintCreature funds the owner with exactly the template price and mints.
func mintCreature(t *testing.T, admin, owner uuid.UUID) *domain.Creature {
	t.Helper()
	template := createTemplate(t, admin, 1_000_000_000)
	fundTrainer(t, admin, owner, template.Price)

	creature, err := NewCreatureService(testDB).Mint(context.Background(), owner, template.TemplateID)
	require.NoError(t, err)
	return creature
}
