package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"genetix/internal/domain"
	"genetix/internal/ledger"
	"genetix/internal/repository"
)

var (
	ErrAlreadyInitialized   = errors.New("platform already initialized")
	ErrNotInitialized       = errors.New("platform not initialized")
	ErrInvalidFeePercentage = errors.New("fee must be between 0 and 10000 basis points")
	ErrInvalidAmount        = errors.New("amount must be greater than 0")
	ErrInsufficientFees     = errors.New("insufficient balance for withdrawal")
)

// TreasuryVault is the named fee-collection vault; PlatformVault receives
// mint payments.
const (
	TreasuryVault = "treasury-fees"
	PlatformVault = "platform-receipts"
)

type PlatformService struct {
	platformRepo *repository.PlatformRepository
	treasuryRepo *repository.TreasuryRepository
	templateRepo *repository.TemplateRepository
	db           *sqlx.DB
}

func NewPlatformService(db *sqlx.DB) *PlatformService {
	return &PlatformService{
		platformRepo: repository.NewPlatformRepository(db),
		treasuryRepo: repository.NewTreasuryRepository(db),
		templateRepo: repository.NewTemplateRepository(db),
		db:           db,
	}
}

// Initialize bootstraps the platform and treasury singletons. The caller
// becomes the admin. Runs once; a second call fails without touching state.
func (s *PlatformService) Initialize(ctx context.Context, caller uuid.UUID, feeBps uint16) (*domain.Platform, error) {
	if feeBps > domain.MaxFeeBps {
		return nil, ErrInvalidFeePercentage
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternalError
	}
	defer tx.Rollback()

	platform := &domain.Platform{
		Admin:  caller,
		FeeBps: feeBps,
	}
	if err := repository.NewPlatformRepository(tx).Create(platform); err != nil {
		if errors.Is(err, repository.ErrPlatformExists) {
			return nil, ErrAlreadyInitialized
		}
		return nil, ErrInternalError
	}

	lgr := ledger.New(tx)
	feeAccount, err := lgr.EnsureVault(ledger.TokenMON, TreasuryVault)
	if err != nil {
		return nil, ErrInternalError
	}
	if _, err := lgr.EnsureVault(ledger.TokenMON, PlatformVault); err != nil {
		return nil, ErrInternalError
	}

	treasury := &domain.Treasury{FeeAccountID: feeAccount}
	if err := repository.NewTreasuryRepository(tx).Create(treasury); err != nil {
		return nil, ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternalError
	}

	return platform, nil
}

func (s *PlatformService) Get(ctx context.Context) (*domain.Platform, error) {
	platform, err := s.platformRepo.Get()
	if err != nil {
		if errors.Is(err, repository.ErrPlatformNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, ErrInternalError
	}
	return platform, nil
}

func (s *PlatformService) GetTreasury(ctx context.Context) (*domain.Treasury, uint64, error) {
	treasury, err := s.treasuryRepo.Get()
	if err != nil {
		if errors.Is(err, repository.ErrTreasuryNotFound) {
			return nil, 0, ErrNotInitialized
		}
		return nil, 0, ErrInternalError
	}

	custodied, err := ledger.New(s.db).Balance(treasury.FeeAccountID)
	if err != nil {
		return nil, 0, ErrInternalError
	}
	return treasury, custodied, nil
}

func (s *PlatformService) UpdateFee(ctx context.Context, caller uuid.UUID, feeBps uint16) error {
	platform, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(caller, platform); err != nil {
		return err
	}
	if feeBps > domain.MaxFeeBps {
		return ErrInvalidFeePercentage
	}

	if err := s.platformRepo.UpdateFeeBps(feeBps); err != nil {
		return ErrInternalError
	}
	return nil
}

func (s *PlatformService) SetSoulStonePrice(ctx context.Context, caller uuid.UUID, price uint64) error {
	platform, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(caller, platform); err != nil {
		return err
	}
	if price == 0 {
		return domain.ErrInvalidPrice
	}

	if err := s.platformRepo.UpdateSoulStonePrice(price); err != nil {
		return ErrInternalError
	}
	return nil
}

type AddTemplateInput struct {
	TemplateID uint64
	Name       string
	BaseURI    string
	Price      uint64
	Stats      domain.Stats
}

func (s *PlatformService) AddTemplate(ctx context.Context, caller uuid.UUID, input AddTemplateInput) (*domain.CreatureTemplate, error) {
	platform, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(caller, platform); err != nil {
		return nil, err
	}
	if err := domain.ValidateTemplate(input.Name, input.BaseURI, input.Price, input.Stats); err != nil {
		return nil, err
	}

	template := &domain.CreatureTemplate{
		TemplateID: input.TemplateID,
		Name:       input.Name,
		BaseURI:    input.BaseURI,
		Price:      input.Price,
		HP:         input.Stats.HP,
		Attack:     input.Stats.Attack,
		Defense:    input.Stats.Defense,
		Speed:      input.Stats.Speed,
	}
	if err := s.templateRepo.Create(template); err != nil {
		if errors.Is(err, repository.ErrTemplateExists) {
			return nil, err
		}
		return nil, ErrInternalError
	}
	return template, nil
}

func (s *PlatformService) SetTemplateActive(ctx context.Context, caller uuid.UUID, templateID uint64, active bool) error {
	platform, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(caller, platform); err != nil {
		return err
	}

	if err := s.templateRepo.SetActive(templateID, active); err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return err
		}
		return ErrInternalError
	}
	return nil
}

// Reward mints MON to a trainer, the payout path for boss fights and
// events that happen outside the escrow flow.
func (s *PlatformService) Reward(ctx context.Context, caller, recipient uuid.UUID, amount uint64) error {
	platform, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(caller, platform); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ErrInternalError
	}
	defer tx.Rollback()

	lgr := ledger.New(tx)
	account, err := lgr.EnsureAccount(ledger.TokenMON, recipient)
	if err != nil {
		return ErrInternalError
	}
	if err := lgr.MintTo(account, amount); err != nil {
		return ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return ErrInternalError
	}
	return nil
}

// Withdraw drains collected fees to the admin's MON account. The lifetime
// fee counter is an audit total and stays untouched.
func (s *PlatformService) Withdraw(ctx context.Context, caller uuid.UUID, amount uint64) error {
	platform, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if err := requireAdmin(caller, platform); err != nil {
		return err
	}
	if amount == 0 {
		return ErrInvalidAmount
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ErrInternalError
	}
	defer tx.Rollback()

	treasury, err := repository.NewTreasuryRepository(tx).GetForUpdate()
	if err != nil {
		return ErrInternalError
	}

	lgr := ledger.New(tx)
	adminAccount, err := lgr.EnsureAccount(ledger.TokenMON, platform.Admin)
	if err != nil {
		return ErrInternalError
	}
	if err := lgr.Transfer(treasury.FeeAccountID, adminAccount, amount); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return ErrInsufficientFees
		}
		return ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return ErrInternalError
	}
	return nil
}
