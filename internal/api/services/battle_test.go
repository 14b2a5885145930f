package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genetix/internal/domain"
	"genetix/internal/ledger"
	"genetix/internal/repository"
	"genetix/internal/testutil"
)

func TestBattleService_Create(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	require.NoError(t, NewPlatformService(testDB).UpdateFee(ctx, admin, 500))
	svc := NewBattleService(testDB, setupTestRedis(t))

	t.Run("stake moves into custody", func(t *testing.T) {
		p1 := createTrainer(t, "host")
		c1 := mintCreature(t, admin, p1.ID)
		fundTrainer(t, admin, p1.ID, domain.StakeAmount)

		battleID := nextBattleID()
		battle, err := svc.Create(ctx, p1.ID, battleID, c1.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.BattleStatusWaitingForPlayer2, battle.Status)
		assert.Equal(t, domain.StakeAmount, battle.Stake)

		// 5% of 10 MON pinned at creation.
		assert.Equal(t, uint64(500_000_000), battle.FeeAmount)

		pot, err := ledger.New(testDB).CustodyBalanceForUpdate(ledger.CustodyForBattle(battleID))
		require.NoError(t, err)
		assert.Equal(t, domain.StakeAmount, pot)

		mon, _, err := NewCreatureService(testDB).Balances(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), mon)
	})

	t.Run("insufficient stake", func(t *testing.T) {
		p1 := createTrainer(t, "shorthost")
		c1 := mintCreature(t, admin, p1.ID)
		fundTrainer(t, admin, p1.ID, domain.StakeAmount-1)

		_, err := svc.Create(ctx, p1.ID, nextBattleID(), c1.ID)
		assert.ErrorIs(t, err, ErrInsufficientMON)
	})

	t.Run("someone else's creature", func(t *testing.T) {
		owner := createTrainer(t, "owner")
		creature := mintCreature(t, admin, owner.ID)
		thief := createTrainer(t, "thief")
		fundTrainer(t, admin, thief.ID, domain.StakeAmount)

		_, err := svc.Create(ctx, thief.ID, nextBattleID(), creature.ID)
		assert.ErrorIs(t, err, ErrNotCreatureOwner)
	})

	t.Run("duplicate battle id", func(t *testing.T) {
		p1 := createTrainer(t, "dup")
		c1 := mintCreature(t, admin, p1.ID)
		fundTrainer(t, admin, p1.ID, 2*domain.StakeAmount)

		battleID := nextBattleID()
		_, err := svc.Create(ctx, p1.ID, battleID, c1.ID)
		require.NoError(t, err)

		_, err = svc.Create(ctx, p1.ID, battleID, c1.ID)
		assert.ErrorIs(t, err, repository.ErrBattleExists)
	})
}

func TestBattleService_Join(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	require.NoError(t, NewPlatformService(testDB).UpdateFee(ctx, admin, 500))
	svc := NewBattleService(testDB, setupTestRedis(t))

	openBattle := func(t *testing.T) (uint64, *domain.Trainer) {
		t.Helper()
		p1 := createTrainer(t, "host")
		c1 := mintCreature(t, admin, p1.ID)
		fundTrainer(t, admin, p1.ID, domain.StakeAmount)

		battleID := nextBattleID()
		_, err := svc.Create(ctx, p1.ID, battleID, c1.ID)
		require.NoError(t, err)
		return battleID, p1
	}

	t.Run("pot doubles on join", func(t *testing.T) {
		battleID, _ := openBattle(t)

		p2 := createTrainer(t, "joiner")
		c2 := mintCreature(t, admin, p2.ID)
		fundTrainer(t, admin, p2.ID, domain.StakeAmount)

		battle, err := svc.Join(ctx, p2.ID, battleID, c2.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BattleStatusInProgress, battle.Status)
		require.NotNil(t, battle.Player2)
		assert.Equal(t, p2.ID, *battle.Player2)

		pot, err := ledger.New(testDB).CustodyBalanceForUpdate(ledger.CustodyForBattle(battleID))
		require.NoError(t, err)
		assert.Equal(t, 2*domain.StakeAmount, pot)
	})

	t.Run("self-join rejected before funds move", func(t *testing.T) {
		battleID, p1 := openBattle(t)
		c1b := mintCreature(t, admin, p1.ID)
		fundTrainer(t, admin, p1.ID, domain.StakeAmount)

		_, err := svc.Join(ctx, p1.ID, battleID, c1b.ID)
		assert.ErrorIs(t, err, ErrCannotJoinOwnBattle)

		mon, _, err := NewCreatureService(testDB).Balances(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StakeAmount, mon)
	})

	t.Run("insufficient stake", func(t *testing.T) {
		battleID, _ := openBattle(t)

		p2 := createTrainer(t, "shortjoin")
		c2 := mintCreature(t, admin, p2.ID)
		fundTrainer(t, admin, p2.ID, domain.StakeAmount-1)

		_, err := svc.Join(ctx, p2.ID, battleID, c2.ID)
		assert.ErrorIs(t, err, ErrInsufficientMON)
	})

	t.Run("join in-progress battle rejected", func(t *testing.T) {
		battleID, _ := openBattle(t)

		p2 := createTrainer(t, "first")
		c2 := mintCreature(t, admin, p2.ID)
		fundTrainer(t, admin, p2.ID, domain.StakeAmount)
		_, err := svc.Join(ctx, p2.ID, battleID, c2.ID)
		require.NoError(t, err)

		p3 := createTrainer(t, "late")
		c3 := mintCreature(t, admin, p3.ID)
		fundTrainer(t, admin, p3.ID, domain.StakeAmount)
		_, err = svc.Join(ctx, p3.ID, battleID, c3.ID)
		assert.ErrorIs(t, err, ErrInvalidBattleStatus)
	})

	t.Run("unknown battle", func(t *testing.T) {
		p2 := createTrainer(t, "wanderer")
		c2 := mintCreature(t, admin, p2.ID)
		_, err := svc.Join(ctx, p2.ID, nextBattleID(), c2.ID)
		assert.ErrorIs(t, err, repository.ErrBattleNotFound)
	})
}

func TestBattleService_Resolve(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	require.NoError(t, NewPlatformService(testDB).UpdateFee(ctx, admin, 500))
	svc := NewBattleService(testDB, setupTestRedis(t))

	activeBattle := func(t *testing.T) (uint64, *domain.Trainer, *domain.Trainer, *domain.Creature, *domain.Creature) {
		t.Helper()
		p1 := createTrainer(t, "r1")
		p2 := createTrainer(t, "r2")
		c1 := mintCreature(t, admin, p1.ID)
		c2 := mintCreature(t, admin, p2.ID)
		fundTrainer(t, admin, p1.ID, domain.StakeAmount)
		fundTrainer(t, admin, p2.ID, domain.StakeAmount)

		battleID := nextBattleID()
		_, err := svc.Create(ctx, p1.ID, battleID, c1.ID)
		require.NoError(t, err)
		_, err = svc.Join(ctx, p2.ID, battleID, c2.ID)
		require.NoError(t, err)
		return battleID, p1, p2, c1, c2
	}

	t.Run("full settlement", func(t *testing.T) {
		battleID, p1, p2, c1, c2 := activeBattle(t)

		treasuryBefore, feeVaultBefore, err := NewPlatformService(testDB).GetTreasury(ctx)
		require.NoError(t, err)

		battle, err := svc.Resolve(ctx, p2.ID, battleID, false)
		require.NoError(t, err)

		assert.Equal(t, domain.BattleStatusResolved, battle.Status)
		require.NotNil(t, battle.Winner)
		assert.Equal(t, p2.ID, *battle.Winner)

		fee := battle.FeeAmount
		payout := 2*domain.StakeAmount - fee

		winnerMON, _, err := NewCreatureService(testDB).Balances(ctx, p2.ID)
		require.NoError(t, err)
		assert.Equal(t, payout, winnerMON)

		loserMON, _, err := NewCreatureService(testDB).Balances(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), loserMON)

		treasuryAfter, feeVaultAfter, err := NewPlatformService(testDB).GetTreasury(ctx)
		require.NoError(t, err)
		assert.Equal(t, treasuryBefore.TotalFeesCollected+fee, treasuryAfter.TotalFeesCollected)
		assert.Equal(t, feeVaultBefore+fee, feeVaultAfter)

		// Fee plus payout accounts for the whole pot.
		assert.Equal(t, 2*domain.StakeAmount, fee+payout)

		// Custody is closed, not merely empty.
		_, err = ledger.New(testDB).CustodyBalanceForUpdate(ledger.CustodyForBattle(battleID))
		assert.ErrorIs(t, err, ledger.ErrAccountNotFound)

		winnerCreature, err := NewCreatureService(testDB).Get(ctx, c2.ID)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), winnerCreature.BattlesWon)
		assert.Equal(t, uint32(0), winnerCreature.BattlesLost)
		assert.True(t, winnerCreature.LastBattleAt.Valid)

		loserCreature, err := NewCreatureService(testDB).Get(ctx, c1.ID)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), loserCreature.BattlesWon)
		assert.Equal(t, uint32(1), loserCreature.BattlesLost)
	})

	t.Run("double resolve rejected", func(t *testing.T) {
		battleID, p1, _, _, _ := activeBattle(t)

		_, err := svc.Resolve(ctx, p1.ID, battleID, true)
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, p1.ID, battleID, true)
		assert.ErrorIs(t, err, ErrInvalidBattleStatus)
	})

	t.Run("waiting battle cannot settle", func(t *testing.T) {
		p1 := createTrainer(t, "solo")
		c1 := mintCreature(t, admin, p1.ID)
		fundTrainer(t, admin, p1.ID, domain.StakeAmount)

		battleID := nextBattleID()
		_, err := svc.Create(ctx, p1.ID, battleID, c1.ID)
		require.NoError(t, err)

		_, err = svc.Resolve(ctx, p1.ID, battleID, true)
		assert.ErrorIs(t, err, ErrInvalidBattleStatus)
	})
}

func TestBattleService_ListOpen(t *testing.T) {
	testutil.RequireDB(t, testDB)
	ctx := context.Background()
	_, admin := ensurePlatform(t)
	require.NoError(t, NewPlatformService(testDB).UpdateFee(ctx, admin, 500))
	svc := NewBattleService(testDB, setupTestRedis(t))

	p1 := createTrainer(t, "lobbyhost")
	c1 := mintCreature(t, admin, p1.ID)
	fundTrainer(t, admin, p1.ID, domain.StakeAmount)

	battleID := nextBattleID()
	_, err := svc.Create(ctx, p1.ID, battleID, c1.ID)
	require.NoError(t, err)

	contains := func(battles []*domain.Battle, id uint64) bool {
		for _, b := range battles {
			if b.BattleID == id {
				return true
			}
		}
		return false
	}

	open, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	assert.True(t, contains(open, battleID))

	// Second read comes from the cache and must agree.
	cached, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	assert.True(t, contains(cached, battleID))

	p2 := createTrainer(t, "lobbyjoin")
	c2 := mintCreature(t, admin, p2.ID)
	fundTrainer(t, admin, p2.ID, domain.StakeAmount)
	_, err = svc.Join(ctx, p2.ID, battleID, c2.ID)
	require.NoError(t, err)

	afterJoin, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	assert.False(t, contains(afterJoin, battleID))
}
