package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"genetix/internal/api/dto"
	"genetix/internal/api/middleware"
	"genetix/internal/api/services"
	"genetix/internal/domain"
	"genetix/internal/repository"
)

type BattleHandler struct {
	battleService *services.BattleService
}

func NewBattleHandler(db *sqlx.DB, rdb *redis.Client) *BattleHandler {
	return &BattleHandler{
		battleService: services.NewBattleService(db, rdb),
	}
}

func handleBattleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrNotCreatureOwner):
		return ErrForbidden(c, "creature does not belong to caller")
	case errors.Is(err, services.ErrInvalidBattleStatus):
		return ErrBadRequest(c, "battle is not open for this action")
	case errors.Is(err, services.ErrBattleNotReady):
		return ErrBadRequest(c, "battle not ready to resolve")
	case errors.Is(err, services.ErrCannotJoinOwnBattle):
		return ErrBadRequest(c, "cannot join your own battle")
	case errors.Is(err, services.ErrInsufficientMON):
		return ErrBadRequest(c, "insufficient MON tokens")
	case errors.Is(err, services.ErrNotInitialized):
		return ErrNotFound(c, "platform not initialized")
	case errors.Is(err, repository.ErrBattleNotFound):
		return ErrNotFound(c, "battle not found")
	case errors.Is(err, repository.ErrBattleExists):
		return ErrConflict(c, "battle id already taken")
	case errors.Is(err, repository.ErrCreatureNotFound):
		return ErrNotFound(c, "creature not found")
	case errors.Is(err, domain.ErrMathOverflow):
		return ErrBadRequest(c, "math overflow")
	default:
		return ErrInternalServerError(c)
	}
}

func battleIDParam(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("battle_id"), 10, 64)
}

type CreateBattleRequest struct {
	BattleID   uint64 `json:"battleId" validate:"required"`
	CreatureID string `json:"creatureId" validate:"required,uuid"`
}

func (h *BattleHandler) Create(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req CreateBattleRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	creatureID, err := uuid.Parse(req.CreatureID)
	if err != nil {
		return ErrBadRequest(c, "invalid creature id")
	}

	battle, err := h.battleService.Create(c.Request().Context(), trainerID, req.BattleID, creatureID)
	if err != nil {
		return handleBattleError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.BattleFromDomain(battle))
}

type JoinBattleRequest struct {
	CreatureID string `json:"creatureId" validate:"required,uuid"`
}

func (h *BattleHandler) Join(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	battleID, err := battleIDParam(c)
	if err != nil {
		return ErrBadRequest(c, "invalid battle id")
	}

	var req JoinBattleRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	creatureID, err := uuid.Parse(req.CreatureID)
	if err != nil {
		return ErrBadRequest(c, "invalid creature id")
	}

	battle, err := h.battleService.Join(c.Request().Context(), trainerID, battleID, creatureID)
	if err != nil {
		return handleBattleError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BattleFromDomain(battle))
}

type ResolveBattleRequest struct {
	WinnerIsPlayer1 *bool `json:"winnerIsPlayer1" validate:"required"`
}

func (h *BattleHandler) Resolve(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	battleID, err := battleIDParam(c)
	if err != nil {
		return ErrBadRequest(c, "invalid battle id")
	}

	var req ResolveBattleRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	battle, err := h.battleService.Resolve(c.Request().Context(), trainerID, battleID, *req.WinnerIsPlayer1)
	if err != nil {
		return handleBattleError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BattleFromDomain(battle))
}

func (h *BattleHandler) Get(c echo.Context) error {
	battleID, err := battleIDParam(c)
	if err != nil {
		return ErrBadRequest(c, "invalid battle id")
	}

	battle, err := h.battleService.Get(c.Request().Context(), battleID)
	if err != nil {
		return handleBattleError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BattleFromDomain(battle))
}

func (h *BattleHandler) ListOpen(c echo.Context) error {
	battles, err := h.battleService.ListOpen(c.Request().Context())
	if err != nil {
		return handleBattleError(c, err)
	}

	return c.JSON(http.StatusOK, dto.BattlesFromDomain(battles))
}
