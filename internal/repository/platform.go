package repository

import (
	"database/sql"
	"errors"

	"genetix/internal/domain"
)

var (
	ErrPlatformNotFound = errors.New("platform not initialized")
	ErrPlatformExists   = errors.New("platform already initialized")
)

const platformColumns = `id, admin, fee_bps, soul_stone_price,
	total_creatures_minted, total_battles, total_soul_stones, created_at`

type PlatformRepository struct {
	db ExtHandle
}

func NewPlatformRepository(db ExtHandle) *PlatformRepository {
	return &PlatformRepository{db: db}
}

func (r *PlatformRepository) Create(platform *domain.Platform) error {
	query := `
		INSERT INTO platform (admin, fee_bps, soul_stone_price,
			total_creatures_minted, total_battles, total_soul_stones)
		VALUES ($1, $2, $3, 0, 0, 0)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query,
		platform.Admin, platform.FeeBps, platform.SoulStonePrice,
	).Scan(&platform.ID, &platform.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPlatformExists
		}
		return err
	}
	return nil
}

func (r *PlatformRepository) Get() (*domain.Platform, error) {
	return r.get(`SELECT ` + platformColumns + ` FROM platform LIMIT 1`)
}

// GetForUpdate locks the singleton row so counter updates inside a
// transaction cannot interleave.
func (r *PlatformRepository) GetForUpdate() (*domain.Platform, error) {
	return r.get(`SELECT ` + platformColumns + ` FROM platform LIMIT 1 FOR UPDATE`)
}

func (r *PlatformRepository) get(query string) (*domain.Platform, error) {
	platform := &domain.Platform{}
	err := r.db.Get(platform, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlatformNotFound
		}
		return nil, err
	}
	return platform, nil
}

func (r *PlatformRepository) UpdateFeeBps(feeBps uint16) error {
	query := `UPDATE platform SET fee_bps = $1`
	_, err := r.db.Exec(query, feeBps)
	return err
}

func (r *PlatformRepository) UpdateSoulStonePrice(price uint64) error {
	query := `UPDATE platform SET soul_stone_price = $1`
	_, err := r.db.Exec(query, price)
	return err
}

// UpdateCounters writes back the running totals. Callers must have loaded
// the row with GetForUpdate and done checked arithmetic on the values.
func (r *PlatformRepository) UpdateCounters(p *domain.Platform) error {
	query := `
		UPDATE platform
		SET total_creatures_minted = $1,
		    total_battles = $2,
		    total_soul_stones = $3
		WHERE id = $4
	`
	_, err := r.db.Exec(query, p.TotalCreaturesMinted, p.TotalBattles, p.TotalSoulStones, p.ID)
	return err
}
