package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"genetix/internal/api/ws"
	"genetix/internal/domain"
	"genetix/internal/ledger"
	r "genetix/internal/redis"
	"genetix/internal/repository"
)

var (
	ErrInvalidBattleStatus = errors.New("invalid battle status")
	ErrBattleNotReady      = errors.New("battle not ready to resolve")
	ErrCannotJoinOwnBattle = errors.New("cannot join your own battle")
)

// BattleService owns the escrow lifecycle. Stakes live in a custody account
// only this service can debit; every transition runs as one transaction so
// a failure at any step leaves no partial movement behind.
//
// Resolution accepts the outcome boolean from any authenticated caller.
// That trust boundary comes from the system this reimplements; an attested
// result source would have to replace it before real value rides on it.
type BattleService struct {
	battleRepo   *repository.BattleRepository
	creatureRepo *repository.CreatureRepository
	db           *sqlx.DB
	lobby        *r.LobbyCache
	hub          *ws.Hub
}

func NewBattleService(db *sqlx.DB, rdb *goredis.Client) *BattleService {
	return &BattleService{
		battleRepo:   repository.NewBattleRepository(db),
		creatureRepo: repository.NewCreatureRepository(db),
		db:           db,
		lobby:        r.NewLobbyCache(rdb),
		hub:          ws.GetHub(),
	}
}

func (s *BattleService) Get(ctx context.Context, battleID uint64) (*domain.Battle, error) {
	battle, err := s.battleRepo.FindByBattleID(battleID)
	if err != nil {
		if errors.Is(err, repository.ErrBattleNotFound) {
			return nil, err
		}
		return nil, ErrInternalError
	}
	return battle, nil
}

// ListOpen serves the lobby, preferring the cache and falling back to the
// database on a miss.
func (s *BattleService) ListOpen(ctx context.Context) ([]*domain.Battle, error) {
	if cached, err := s.lobby.Get(ctx); err == nil && cached != nil {
		return cached, nil
	}

	battles, err := s.battleRepo.ListOpen()
	if err != nil {
		return nil, ErrInternalError
	}
	_ = s.lobby.Set(ctx, battles)
	return battles, nil
}

// Create opens a battle: player1's stake moves into a fresh custody account
// derived from the battle id, the fee is computed and pinned at creation
// time, and the platform battle counter advances.
func (s *BattleService) Create(ctx context.Context, caller uuid.UUID, battleID uint64, creatureID uuid.UUID) (*domain.Battle, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternalError
	}
	defer tx.Rollback()

	creature, err := repository.NewCreatureRepository(tx).FindByID(creatureID)
	if err != nil {
		if errors.Is(err, repository.ErrCreatureNotFound) {
			return nil, err
		}
		return nil, ErrInternalError
	}
	if err := requireOwner(caller, creature); err != nil {
		return nil, err
	}

	platformRepoTx := repository.NewPlatformRepository(tx)
	platform, err := platformRepoTx.GetForUpdate()
	if err != nil {
		return nil, ErrNotInitialized
	}

	fee, err := domain.ComputeFee(domain.StakeAmount, platform.FeeBps)
	if err != nil {
		return nil, err
	}

	battle := &domain.Battle{
		BattleID:  battleID,
		Player1:   caller,
		Creature1: creatureID,
		Stake:     domain.StakeAmount,
		FeeAmount: fee,
		Status:    domain.BattleStatusWaitingForPlayer2,
	}
	if err := repository.NewBattleRepository(tx).Create(battle); err != nil {
		if errors.Is(err, repository.ErrBattleExists) {
			return nil, err
		}
		return nil, ErrInternalError
	}

	lgr := ledger.New(tx)
	playerAccount, err := lgr.EnsureAccount(ledger.TokenMON, caller)
	if err != nil {
		return nil, ErrInternalError
	}

	custody := ledger.CustodyForBattle(battleID)
	if err := lgr.OpenCustody(custody, ledger.TokenMON); err != nil {
		return nil, ErrInternalError
	}
	if err := lgr.DepositCustody(playerAccount, custody, domain.StakeAmount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return nil, ErrInsufficientMON
		}
		return nil, ErrInternalError
	}

	platform.TotalBattles, err = domain.AddU64(platform.TotalBattles, 1)
	if err != nil {
		return nil, err
	}
	if err := platformRepoTx.UpdateCounters(platform); err != nil {
		return nil, ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternalError
	}

	_ = s.lobby.Invalidate(ctx)
	s.hub.SendBattleEvent("battle_created", ws.BattleEventData{
		BattleID: battleID,
		Status:   string(battle.Status),
	}, caller)

	return battle, nil
}

// Join moves player2's matching stake into custody and flips the battle to
// InProgress. Self-play is rejected before any funds move.
func (s *BattleService) Join(ctx context.Context, caller uuid.UUID, battleID uint64, creatureID uuid.UUID) (*domain.Battle, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternalError
	}
	defer tx.Rollback()

	battleRepoTx := repository.NewBattleRepository(tx)
	battle, err := battleRepoTx.FindByBattleIDForUpdate(battleID)
	if err != nil {
		if errors.Is(err, repository.ErrBattleNotFound) {
			return nil, err
		}
		return nil, ErrInternalError
	}

	state, err := battle.State()
	if err != nil {
		return nil, ErrInternalError
	}
	waiting, ok := state.(domain.AwaitingOpponent)
	if !ok {
		return nil, ErrInvalidBattleStatus
	}
	if waiting.Player1 == caller {
		return nil, ErrCannotJoinOwnBattle
	}

	creature, err := repository.NewCreatureRepository(tx).FindByID(creatureID)
	if err != nil {
		if errors.Is(err, repository.ErrCreatureNotFound) {
			return nil, err
		}
		return nil, ErrInternalError
	}
	if err := requireOwner(caller, creature); err != nil {
		return nil, err
	}

	lgr := ledger.New(tx)
	playerAccount, err := lgr.EnsureAccount(ledger.TokenMON, caller)
	if err != nil {
		return nil, ErrInternalError
	}
	if err := lgr.DepositCustody(playerAccount, ledger.CustodyForBattle(battleID), waiting.Stake); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return nil, ErrInsufficientMON
		}
		return nil, ErrInternalError
	}

	if err := battleRepoTx.SetJoined(battle.ID, caller, creatureID); err != nil {
		return nil, ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternalError
	}

	battle.Player2 = &caller
	battle.Creature2 = &creatureID
	battle.Status = domain.BattleStatusInProgress

	_ = s.lobby.Invalidate(ctx)
	s.hub.SendBattleEvent("battle_joined", ws.BattleEventData{
		BattleID: battleID,
		Status:   string(battle.Status),
	}, battle.Player1, caller)

	return battle, nil
}

// Resolve settles an active battle in one atomic unit: fee to the treasury
// vault, the rest of the pot to the winner, custody closed, creature
// records stamped, lifetime fee counter advanced. Any failed step rolls the
// whole settlement back.
func (s *BattleService) Resolve(ctx context.Context, caller uuid.UUID, battleID uint64, winnerIsPlayer1 bool) (*domain.Battle, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternalError
	}
	defer tx.Rollback()

	battleRepoTx := repository.NewBattleRepository(tx)
	battle, err := battleRepoTx.FindByBattleIDForUpdate(battleID)
	if err != nil {
		if errors.Is(err, repository.ErrBattleNotFound) {
			return nil, err
		}
		return nil, ErrInternalError
	}

	state, err := battle.State()
	if err != nil {
		if errors.Is(err, domain.ErrCorruptBattle) && battle.Status == domain.BattleStatusInProgress {
			return nil, ErrBattleNotReady
		}
		return nil, ErrInternalError
	}
	active, ok := state.(domain.ActiveBattle)
	if !ok {
		return nil, ErrInvalidBattleStatus
	}

	custody := ledger.CustodyForBattle(battleID)
	lgr := ledger.New(tx)

	pot, err := lgr.CustodyBalanceForUpdate(custody)
	if err != nil {
		return nil, ErrInternalError
	}
	payout, err := domain.SubU64(pot, active.FeeAmount)
	if err != nil {
		return nil, domain.ErrMathOverflow
	}

	winner := active.Player1
	winnerCreature, loserCreature := active.Creature1, active.Creature2
	if !winnerIsPlayer1 {
		winner = active.Player2
		winnerCreature, loserCreature = active.Creature2, active.Creature1
	}

	treasuryRepoTx := repository.NewTreasuryRepository(tx)
	treasury, err := treasuryRepoTx.GetForUpdate()
	if err != nil {
		return nil, ErrNotInitialized
	}

	if err := lgr.PayFromCustody(custody, treasury.FeeAccountID, active.FeeAmount); err != nil {
		return nil, ErrInternalError
	}

	winnerAccount, err := lgr.EnsureAccount(ledger.TokenMON, winner)
	if err != nil {
		return nil, ErrInternalError
	}
	if err := lgr.PayFromCustody(custody, winnerAccount, payout); err != nil {
		return nil, ErrInternalError
	}

	// Custody is empty now; residual, if any, goes back to the resolver.
	resolverAccount, err := lgr.EnsureAccount(ledger.TokenMON, caller)
	if err != nil {
		return nil, ErrInternalError
	}
	if err := lgr.CloseCustody(custody, resolverAccount); err != nil {
		return nil, ErrInternalError
	}

	now := time.Now().UTC()
	creatureRepoTx := repository.NewCreatureRepository(tx)
	if err := s.stampBattleResult(creatureRepoTx, winnerCreature, loserCreature, now); err != nil {
		return nil, err
	}

	if err := battleRepoTx.SetResolved(battle.ID, winner, now); err != nil {
		return nil, ErrInternalError
	}

	treasury.TotalFeesCollected, err = domain.AddU64(treasury.TotalFeesCollected, active.FeeAmount)
	if err != nil {
		return nil, err
	}
	if err := treasuryRepoTx.UpdateTotalFees(treasury); err != nil {
		return nil, ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternalError
	}

	battle.Status = domain.BattleStatusResolved
	battle.Winner = &winner

	_ = s.lobby.Invalidate(ctx)
	s.hub.SendBattleEvent("battle_resolved", ws.BattleEventData{
		BattleID: battleID,
		Status:   string(battle.Status),
		Winner:   winner.String(),
	}, active.Player1, active.Player2)

	return battle, nil
}

func (s *BattleService) stampBattleResult(repo *repository.CreatureRepository, winnerID, loserID uuid.UUID, at time.Time) error {
	winner, err := repo.FindByIDForUpdate(winnerID)
	if err != nil {
		return ErrInternalError
	}
	loser, err := repo.FindByIDForUpdate(loserID)
	if err != nil {
		return ErrInternalError
	}

	won, err := domain.AddU32(winner.BattlesWon, 1)
	if err != nil {
		return err
	}
	lost, err := domain.AddU32(loser.BattlesLost, 1)
	if err != nil {
		return err
	}

	if err := repo.UpdateBattleRecord(winner.ID, won, winner.BattlesLost, at); err != nil {
		return ErrInternalError
	}
	if err := repo.UpdateBattleRecord(loser.ID, loser.BattlesWon, lost, at); err != nil {
		return ErrInternalError
	}
	return nil
}
