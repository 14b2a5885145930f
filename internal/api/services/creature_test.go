package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genetix/internal/domain"
	"genetix/internal/metadata"
	"genetix/internal/repository"
	"genetix/internal/testutil"
)

func TestCreatureService_Mint(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	svc := NewCreatureService(testDB)

	t.Run("success", func(t *testing.T) {
		template := createTemplate(t, admin, 3_000_000_000)
		buyer := createTrainer(t, "minter")
		fundTrainer(t, admin, buyer.ID, template.Price)

		platformBefore, err := NewPlatformService(testDB).Get(ctx)
		require.NoError(t, err)

		creature, err := svc.Mint(ctx, buyer.ID, template.TemplateID)
		require.NoError(t, err)

		assert.Equal(t, buyer.ID, creature.Owner)
		assert.Equal(t, template.Name, creature.Name)
		assert.Equal(t, template.BaseURI, creature.MetadataURI)
		assert.Equal(t, template.HP, creature.HP)
		assert.Equal(t, template.Speed, creature.Speed)
		assert.Equal(t, uint8(1), creature.Level)
		assert.Equal(t, uint8(0), creature.EvolutionStage)

		mon, _, err := svc.Balances(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), mon)

		record, err := metadata.New(testDB).FindRecord(creature.ID)
		require.NoError(t, err)
		assert.Equal(t, template.BaseURI, record.URI)

		templateAfter, err := repository.NewTemplateRepository(testDB).FindByTemplateID(template.TemplateID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), templateAfter.TimesMinted)

		platformAfter, err := NewPlatformService(testDB).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, platformBefore.TotalCreaturesMinted+1, platformAfter.TotalCreaturesMinted)
	})

	t.Run("insufficient funds leaves no trace", func(t *testing.T) {
		template := createTemplate(t, admin, 9_000_000_000)
		broke := createTrainer(t, "broke")
		fundTrainer(t, admin, broke.ID, template.Price-1)

		platformBefore, err := NewPlatformService(testDB).Get(ctx)
		require.NoError(t, err)

		_, err = svc.Mint(ctx, broke.ID, template.TemplateID)
		assert.ErrorIs(t, err, ErrInsufficientMON)

		mon, _, err := svc.Balances(ctx, broke.ID)
		require.NoError(t, err)
		assert.Equal(t, template.Price-1, mon)

		templateAfter, err := repository.NewTemplateRepository(testDB).FindByTemplateID(template.TemplateID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), templateAfter.TimesMinted)

		platformAfter, err := NewPlatformService(testDB).Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, platformBefore.TotalCreaturesMinted, platformAfter.TotalCreaturesMinted)
	})

	t.Run("unknown template", func(t *testing.T) {
		buyer := createTrainer(t, "lost")
		_, err := svc.Mint(ctx, buyer.ID, nextBattleID())
		assert.ErrorIs(t, err, ErrTemplateInactive)
	})
}

func TestCreatureService_MintSoulStone(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	svc := NewCreatureService(testDB)
	platformSvc := NewPlatformService(testDB)

	require.NoError(t, platformSvc.SetSoulStonePrice(ctx, admin, 1_000_000_000))

	t.Run("success", func(t *testing.T) {
		buyer := createTrainer(t, "stonebuyer")
		fundTrainer(t, admin, buyer.ID, 1_000_000_000)

		adminBefore, _, err := svc.Balances(ctx, admin)
		require.NoError(t, err)
		platformBefore, err := platformSvc.Get(ctx)
		require.NoError(t, err)

		require.NoError(t, svc.MintSoulStone(ctx, buyer.ID))

		mon, stones, err := svc.Balances(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), mon)
		assert.Equal(t, uint64(1), stones)

		adminAfter, _, err := svc.Balances(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, adminBefore+1_000_000_000, adminAfter)

		platformAfter, err := platformSvc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, platformBefore.TotalSoulStones+1, platformAfter.TotalSoulStones)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		broke := createTrainer(t, "stonebroke")
		err := svc.MintSoulStone(ctx, broke.ID)
		assert.ErrorIs(t, err, ErrInsufficientMON)
	})
}

func TestCreatureService_Evolve(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	svc := NewCreatureService(testDB)

	require.NoError(t, NewPlatformService(testDB).SetSoulStonePrice(ctx, admin, 1_000_000_000))

	newStats := domain.Stats{HP: 90, Attack: 80, Defense: 70, Speed: 100}
	newURI := "https://assets.test/evolved.json"

	t.Run("burns exactly one stone", func(t *testing.T) {
		owner := createTrainer(t, "evolver")
		creature := mintCreature(t, admin, owner.ID)

		fundTrainer(t, admin, owner.ID, 2_000_000_000)
		require.NoError(t, svc.MintSoulStone(ctx, owner.ID))
		require.NoError(t, svc.MintSoulStone(ctx, owner.ID))

		evolved, err := svc.Evolve(ctx, owner.ID, creature.ID, newURI, newStats)
		require.NoError(t, err)

		assert.Equal(t, uint8(1), evolved.EvolutionStage)
		assert.Equal(t, uint8(2), evolved.Level)
		assert.Equal(t, uint16(90), evolved.HP)
		assert.Equal(t, newURI, evolved.MetadataURI)

		_, stones, err := svc.Balances(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stones)

		record, err := metadata.New(testDB).FindRecord(creature.ID)
		require.NoError(t, err)
		assert.Equal(t, newURI, record.URI)
	})

	t.Run("no stone", func(t *testing.T) {
		owner := createTrainer(t, "stoneless")
		creature := mintCreature(t, admin, owner.ID)

		_, err := svc.Evolve(ctx, owner.ID, creature.ID, newURI, newStats)
		assert.ErrorIs(t, err, ErrNoSoulStone)

		after, err := svc.Get(ctx, creature.ID)
		require.NoError(t, err)
		assert.Equal(t, uint8(0), after.EvolutionStage)
	})

	t.Run("non-owner", func(t *testing.T) {
		owner := createTrainer(t, "rightful")
		creature := mintCreature(t, admin, owner.ID)
		intruder := createTrainer(t, "intruder")

		_, err := svc.Evolve(ctx, intruder.ID, creature.ID, newURI, newStats)
		assert.ErrorIs(t, err, ErrNotCreatureOwner)
	})
}

func TestCreatureService_UpdateMedia(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	svc := NewCreatureService(testDB)

	owner := createTrainer(t, "artist")
	creature := mintCreature(t, admin, owner.ID)

	t.Run("owner updates", func(t *testing.T) {
		newURI := "https://assets.test/fresh.json"
		require.NoError(t, svc.UpdateMedia(ctx, owner.ID, creature.ID, newURI))

		after, err := svc.Get(ctx, creature.ID)
		require.NoError(t, err)
		assert.Equal(t, newURI, after.MetadataURI)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		intruder := createTrainer(t, "vandal")
		err := svc.UpdateMedia(ctx, intruder.ID, creature.ID, "https://assets.test/vandal.json")
		assert.ErrorIs(t, err, ErrNotCreatureOwner)
	})

	t.Run("empty uri rejected", func(t *testing.T) {
		err := svc.UpdateMedia(ctx, owner.ID, creature.ID, "")
		assert.ErrorIs(t, err, domain.ErrInvalidURI)
	})
}
