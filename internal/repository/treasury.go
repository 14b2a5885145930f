package repository

import (
	"database/sql"
	"errors"

	"genetix/internal/domain"
)

var ErrTreasuryNotFound = errors.New("treasury not initialized")

type TreasuryRepository struct {
	db ExtHandle
}

func NewTreasuryRepository(db ExtHandle) *TreasuryRepository {
	return &TreasuryRepository{db: db}
}

func (r *TreasuryRepository) Create(treasury *domain.Treasury) error {
	query := `
		INSERT INTO treasury (total_fees_collected, fee_account_id)
		VALUES (0, $1)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(query, treasury.FeeAccountID).
		Scan(&treasury.ID, &treasury.CreatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPlatformExists
		}
		return err
	}
	return nil
}

func (r *TreasuryRepository) Get() (*domain.Treasury, error) {
	return r.get(`SELECT id, total_fees_collected, fee_account_id, created_at FROM treasury LIMIT 1`)
}

func (r *TreasuryRepository) GetForUpdate() (*domain.Treasury, error) {
	return r.get(`SELECT id, total_fees_collected, fee_account_id, created_at FROM treasury LIMIT 1 FOR UPDATE`)
}

func (r *TreasuryRepository) get(query string) (*domain.Treasury, error) {
	treasury := &domain.Treasury{}
	err := r.db.Get(treasury, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTreasuryNotFound
		}
		return nil, err
	}
	return treasury, nil
}

// UpdateTotalFees writes the lifetime counter. The value must come from
// checked arithmetic on a row loaded with GetForUpdate; the counter only
// ever grows.
func (r *TreasuryRepository) UpdateTotalFees(t *domain.Treasury) error {
	query := `UPDATE treasury SET total_fees_collected = $1 WHERE id = $2`
	_, err := r.db.Exec(query, t.TotalFeesCollected, t.ID)
	return err
}
