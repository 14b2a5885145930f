package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"

	"genetix/internal/metrics"
	r "genetix/internal/redis"
	"genetix/internal/repository"
)

// StatsWorker periodically exports platform lifetime counters to
// prometheus and refreshes the open-battle lobby cache.
type StatsWorker struct {
	platformRepo *repository.PlatformRepository
	treasuryRepo *repository.TreasuryRepository
	battleRepo   *repository.BattleRepository
	lobby        *r.LobbyCache
	ticker       *time.Ticker
}

func NewStatsWorker(db *sqlx.DB, rdb *goredis.Client, interval time.Duration) *StatsWorker {
	return &StatsWorker{
		platformRepo: repository.NewPlatformRepository(db),
		treasuryRepo: repository.NewTreasuryRepository(db),
		battleRepo:   repository.NewBattleRepository(db),
		lobby:        r.NewLobbyCache(rdb),
		ticker:       time.NewTicker(interval),
	}
}

func (w *StatsWorker) StartWorker(ctx context.Context) {
	defer w.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.ticker.C:
			w.collect(ctx)
		}
	}
}

func (w *StatsWorker) collect(ctx context.Context) {
	platform, err := w.platformRepo.Get()
	if err != nil {
		if err != repository.ErrPlatformNotFound {
			fmt.Printf("[StatsWorker] Error reading platform: %v\n", err)
		}
		return
	}

	metrics.CreaturesMinted.Set(float64(platform.TotalCreaturesMinted))
	metrics.BattlesCreated.Set(float64(platform.TotalBattles))
	metrics.SoulStonesMinted.Set(float64(platform.TotalSoulStones))

	treasury, err := w.treasuryRepo.Get()
	if err == nil {
		metrics.FeesCollected.Set(float64(treasury.TotalFeesCollected))
	}

	open, err := w.battleRepo.ListOpen()
	if err != nil {
		fmt.Printf("[StatsWorker] Error listing open battles: %v\n", err)
		return
	}

	metrics.OpenBattles.Set(float64(len(open)))

	if err := w.lobby.Set(ctx, open); err != nil {
		fmt.Printf("[StatsWorker] Error refreshing lobby cache: %v\n", err)
	}
}
