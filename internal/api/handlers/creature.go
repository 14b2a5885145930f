package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"genetix/internal/api/dto"
	"genetix/internal/api/middleware"
	"genetix/internal/api/services"
	"genetix/internal/domain"
	"genetix/internal/repository"
)

type CreatureHandler struct {
	creatureService *services.CreatureService
}

func NewCreatureHandler(db *sqlx.DB) *CreatureHandler {
	return &CreatureHandler{
		creatureService: services.NewCreatureService(db),
	}
}

func handleCreatureError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotCreatureOwner):
		return ErrForbidden(c, "creature does not belong to caller")
	case errors.Is(err, services.ErrTemplateInactive):
		return ErrBadRequest(c, "template not found or inactive")
	case errors.Is(err, services.ErrInsufficientMON):
		return ErrBadRequest(c, "insufficient MON tokens")
	case errors.Is(err, services.ErrNoSoulStone):
		return ErrBadRequest(c, "no soul stone available to burn")
	case errors.Is(err, services.ErrNotInitialized):
		return ErrNotFound(c, "platform not initialized")
	case errors.Is(err, domain.ErrInvalidPrice):
		return ErrBadRequest(c, "soul stone price not set")
	case errors.Is(err, repository.ErrCreatureNotFound):
		return ErrNotFound(c, "creature not found")
	case errors.Is(err, repository.ErrTemplateNotFound):
		return ErrNotFound(c, "template not found")
	case errors.Is(err, domain.ErrURITooLong),
		errors.Is(err, domain.ErrInvalidURI),
		errors.Is(err, domain.ErrInvalidStats),
		errors.Is(err, domain.ErrMathOverflow):
		return ErrBadRequest(c, err.Error())
	default:
		return ErrInternalServerError(c)
	}
}

type MintCreatureRequest struct {
	TemplateID uint64 `json:"templateId" validate:"required"`
}

func (h *CreatureHandler) Mint(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req MintCreatureRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	creature, err := h.creatureService.Mint(c.Request().Context(), trainerID, req.TemplateID)
	if err != nil {
		return handleCreatureError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.CreatureFromDomain(creature))
}

func (h *CreatureHandler) MintSoulStone(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	if err := h.creatureService.MintSoulStone(c.Request().Context(), trainerID); err != nil {
		return handleCreatureError(c, err)
	}

	return SuccessResponse(c, "soul stone minted")
}

func (h *CreatureHandler) Get(c echo.Context) error {
	creatureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ErrBadRequest(c, "invalid creature id")
	}

	creature, err := h.creatureService.Get(c.Request().Context(), creatureID)
	if err != nil {
		return handleCreatureError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CreatureFromDomain(creature))
}

func (h *CreatureHandler) ListMine(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	creatures, err := h.creatureService.ListByOwner(c.Request().Context(), trainerID)
	if err != nil {
		return handleCreatureError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CreaturesFromDomain(creatures))
}

type EvolveCreatureRequest struct {
	NewURI  string `json:"newUri" validate:"required,max=200"`
	HP      uint16 `json:"hp" validate:"required,gt=0"`
	Attack  uint16 `json:"attack" validate:"required,gt=0"`
	Defense uint16 `json:"defense" validate:"required,gt=0"`
	Speed   uint16 `json:"speed" validate:"required,gt=0"`
}

func (h *CreatureHandler) Evolve(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	creatureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ErrBadRequest(c, "invalid creature id")
	}

	var req EvolveCreatureRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	newStats := domain.Stats{
		HP:      req.HP,
		Attack:  req.Attack,
		Defense: req.Defense,
		Speed:   req.Speed,
	}

	creature, err := h.creatureService.Evolve(c.Request().Context(), trainerID, creatureID, req.NewURI, newStats)
	if err != nil {
		return handleCreatureError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CreatureFromDomain(creature))
}

type UpdateMediaRequest struct {
	NewURI string `json:"newUri" validate:"required,max=200"`
}

func (h *CreatureHandler) UpdateMedia(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	creatureID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return ErrBadRequest(c, "invalid creature id")
	}

	var req UpdateMediaRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	if err := h.creatureService.UpdateMedia(c.Request().Context(), trainerID, creatureID, req.NewURI); err != nil {
		return handleCreatureError(c, err)
	}

	return SuccessResponse(c, "media updated")
}

type BalancesResponse struct {
	MON        uint64 `json:"mon"`
	SoulStones uint64 `json:"soulStones"`
}

func (h *CreatureHandler) Balances(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	mon, stones, err := h.creatureService.Balances(c.Request().Context(), trainerID)
	if err != nil {
		return handleCreatureError(c, err)
	}

	return c.JSON(http.StatusOK, &BalancesResponse{
		MON:        mon,
		SoulStones: stones,
	})
}
