package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"genetix/internal/domain"
	"genetix/internal/ledger"
	"genetix/internal/metadata"
	"genetix/internal/repository"
)

var (
	ErrTemplateInactive = errors.New("template not found or inactive")
	ErrInsufficientMON  = errors.New("insufficient MON tokens")
	ErrNoSoulStone      = errors.New("no soul stone available to burn")
)

type CreatureService struct {
	creatureRepo *repository.CreatureRepository
	templateRepo *repository.TemplateRepository
	platformRepo *repository.PlatformRepository
	db           *sqlx.DB
}

func NewCreatureService(db *sqlx.DB) *CreatureService {
	return &CreatureService{
		creatureRepo: repository.NewCreatureRepository(db),
		templateRepo: repository.NewTemplateRepository(db),
		platformRepo: repository.NewPlatformRepository(db),
		db:           db,
	}
}

func (s *CreatureService) Get(ctx context.Context, id uuid.UUID) (*domain.Creature, error) {
	creature, err := s.creatureRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCreatureNotFound) {
			return nil, err
		}
		return nil, ErrInternalError
	}
	return creature, nil
}

func (s *CreatureService) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*domain.Creature, error) {
	creatures, err := s.creatureRepo.FindByOwner(owner)
	if err != nil {
		return nil, ErrInternalError
	}
	return creatures, nil
}

// Mint creates a creature from an active template: the template price moves
// to the platform receipts vault, the creature copies the template stats at
// level 1 / stage 0, a metadata record is created, and the template and
// platform mint counters advance. All inside one transaction.
func (s *CreatureService) Mint(ctx context.Context, caller uuid.UUID, templateID uint64) (*domain.Creature, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternalError
	}
	defer tx.Rollback()

	template, err := repository.NewTemplateRepository(tx).FindByTemplateIDForUpdate(templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return nil, ErrTemplateInactive
		}
		return nil, ErrInternalError
	}
	if !template.IsActive {
		return nil, ErrTemplateInactive
	}

	lgr := ledger.New(tx)
	playerAccount, err := lgr.EnsureAccount(ledger.TokenMON, caller)
	if err != nil {
		return nil, ErrInternalError
	}
	receipts, err := lgr.EnsureVault(ledger.TokenMON, PlatformVault)
	if err != nil {
		return nil, ErrInternalError
	}

	if err := lgr.Transfer(playerAccount, receipts, template.Price); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return nil, ErrInsufficientMON
		}
		return nil, ErrInternalError
	}

	creature := &domain.Creature{
		Owner:       caller,
		TemplateID:  template.TemplateID,
		Name:        template.Name,
		MetadataURI: template.BaseURI,
		HP:          template.HP,
		Attack:      template.Attack,
		Defense:     template.Defense,
		Speed:       template.Speed,
		Level:       1,
	}
	if err := repository.NewCreatureRepository(tx).Create(creature); err != nil {
		return nil, ErrInternalError
	}

	if err := metadata.New(tx).CreateRecord(creature.ID, creature.Name, creature.MetadataURI); err != nil {
		return nil, ErrInternalError
	}

	template.TimesMinted, err = domain.AddU64(template.TimesMinted, 1)
	if err != nil {
		return nil, err
	}
	if err := repository.NewTemplateRepository(tx).UpdateTimesMinted(template); err != nil {
		return nil, ErrInternalError
	}

	platformRepoTx := repository.NewPlatformRepository(tx)
	platform, err := platformRepoTx.GetForUpdate()
	if err != nil {
		return nil, ErrNotInitialized
	}
	platform.TotalCreaturesMinted, err = domain.AddU64(platform.TotalCreaturesMinted, 1)
	if err != nil {
		return nil, err
	}
	if err := platformRepoTx.UpdateCounters(platform); err != nil {
		return nil, ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternalError
	}

	return creature, nil
}

// MintSoulStone sells one consumable at the configured price. The price is
// taken in MON and paid to the admin.
func (s *CreatureService) MintSoulStone(ctx context.Context, caller uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ErrInternalError
	}
	defer tx.Rollback()

	platformRepoTx := repository.NewPlatformRepository(tx)
	platform, err := platformRepoTx.GetForUpdate()
	if err != nil {
		return ErrNotInitialized
	}
	if platform.SoulStonePrice == 0 {
		return domain.ErrInvalidPrice
	}

	lgr := ledger.New(tx)
	playerAccount, err := lgr.EnsureAccount(ledger.TokenMON, caller)
	if err != nil {
		return ErrInternalError
	}
	adminAccount, err := lgr.EnsureAccount(ledger.TokenMON, platform.Admin)
	if err != nil {
		return ErrInternalError
	}

	if err := lgr.Transfer(playerAccount, adminAccount, platform.SoulStonePrice); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return ErrInsufficientMON
		}
		return ErrInternalError
	}

	stoneAccount, err := lgr.EnsureAccount(ledger.TokenSoulStone, caller)
	if err != nil {
		return ErrInternalError
	}
	if err := lgr.MintTo(stoneAccount, 1); err != nil {
		return ErrInternalError
	}

	platform.TotalSoulStones, err = domain.AddU64(platform.TotalSoulStones, 1)
	if err != nil {
		return err
	}
	if err := platformRepoTx.UpdateCounters(platform); err != nil {
		return ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return ErrInternalError
	}
	return nil
}

// Evolve burns exactly one Soul Stone and applies one evolution step. The
// burn and the stat rewrite commit together or not at all.
func (s *CreatureService) Evolve(ctx context.Context, caller, creatureID uuid.UUID, newURI string, newStats domain.Stats) (*domain.Creature, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, ErrInternalError
	}
	defer tx.Rollback()

	creatureRepoTx := repository.NewCreatureRepository(tx)
	creature, err := creatureRepoTx.FindByIDForUpdate(creatureID)
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
	stoneAccount, err := lgr.EnsureAccount(ledger.TokenSoulStone, caller)
	if err != nil {
		return nil, ErrInternalError
	}
	if err := lgr.BurnFrom(stoneAccount, 1); err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			return nil, ErrNoSoulStone
		}
		return nil, ErrInternalError
	}

	if err := creature.Evolve(newURI, newStats); err != nil {
		return nil, err
	}

	if err := metadata.New(tx).UpdateRecord(creature.ID, newURI); err != nil {
		return nil, ErrInternalError
	}
	if err := creatureRepoTx.UpdateEvolution(creature); err != nil {
		return nil, ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return nil, ErrInternalError
	}

	return creature, nil
}

// UpdateMedia rewrites the creature's metadata URI without touching stats.
func (s *CreatureService) UpdateMedia(ctx context.Context, caller, creatureID uuid.UUID, newURI string) error {
	if err := domain.ValidateURI(newURI); err != nil {
		return err
	}

	creature, err := s.creatureRepo.FindByID(creatureID)
	if err != nil {
		if errors.Is(err, repository.ErrCreatureNotFound) {
			return err
		}
		return ErrInternalError
	}
	if err := requireOwner(caller, creature); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ErrInternalError
	}
	defer tx.Rollback()

	if err := metadata.New(tx).UpdateRecord(creatureID, newURI); err != nil {
		return ErrInternalError
	}
	if err := repository.NewCreatureRepository(tx).UpdateMetadataURI(creatureID, newURI); err != nil {
		return ErrInternalError
	}

	if err := tx.Commit(); err != nil {
		return ErrInternalError
	}
	return nil
}

// Balances reports a trainer's MON and Soul Stone holdings.
func (s *CreatureService) Balances(ctx context.Context, trainerID uuid.UUID) (mon uint64, stones uint64, err error) {
	lgr := ledger.New(s.db)

	mon, err = lgr.Balance(ledger.AccountID(ledger.TokenMON, trainerID))
	if err != nil {
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return 0, 0, ErrInternalError
		}
		mon = 0
	}
	stones, err = lgr.Balance(ledger.AccountID(ledger.TokenSoulStone, trainerID))
	if err != nil {
		if !errors.Is(err, ledger.ErrAccountNotFound) {
			return 0, 0, ErrInternalError
		}
		stones = 0
	}
	return mon, stones, nil
}
