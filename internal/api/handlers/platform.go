package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"genetix/internal/api/dto"
	"genetix/internal/api/middleware"
	"genetix/internal/api/services"
	"genetix/internal/domain"
	"genetix/internal/repository"
)

type PlatformHandler struct {
	platformService *services.PlatformService
	templateRepo    *repository.TemplateRepository
}

func NewPlatformHandler(db *sqlx.DB) *PlatformHandler {
	return &PlatformHandler{
		platformService: services.NewPlatformService(db),
		templateRepo:    repository.NewTemplateRepository(db),
	}
}

func handlePlatformError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		return ErrForbidden(c, "only admin can perform this action")
	case errors.Is(err, services.ErrAlreadyInitialized):
		return ErrConflict(c, "platform already initialized")
	case errors.Is(err, services.ErrNotInitialized):
		return ErrNotFound(c, "platform not initialized")
	case errors.Is(err, services.ErrInvalidFeePercentage):
		return ErrBadRequest(c, "fee must be between 0 and 10000 basis points")
	case errors.Is(err, services.ErrInvalidAmount):
		return ErrBadRequest(c, "amount must be greater than 0")
	case errors.Is(err, services.ErrInsufficientFees):
		return ErrBadRequest(c, "insufficient collected fees")
	case errors.Is(err, repository.ErrTemplateExists):
		return ErrConflict(c, "template already exists")
	case errors.Is(err, repository.ErrTemplateNotFound):
		return ErrNotFound(c, "template not found")
	case errors.Is(err, repository.ErrTrainerNotFound):
		return ErrNotFound(c, "trainer not found")
	case errors.Is(err, domain.ErrNameTooLong),
		errors.Is(err, domain.ErrURITooLong),
		errors.Is(err, domain.ErrInvalidURI),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidStats):
		return ErrBadRequest(c, err.Error())
	default:
		return ErrInternalServerError(c)
	}
}

type InitializePlatformRequest struct {
	FeeBps uint16 `json:"feeBps" validate:"max=10000"`
}

func (h *PlatformHandler) Initialize(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req InitializePlatformRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	platform, err := h.platformService.Initialize(c.Request().Context(), trainerID, req.FeeBps)
	if err != nil {
		return handlePlatformError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.PlatformFromDomain(platform))
}

func (h *PlatformHandler) Get(c echo.Context) error {
	platform, err := h.platformService.Get(c.Request().Context())
	if err != nil {
		return handlePlatformError(c, err)
	}

	return c.JSON(http.StatusOK, dto.PlatformFromDomain(platform))
}

type UpdateFeeRequest struct {
	FeeBps uint16 `json:"feeBps" validate:"max=10000"`
}

func (h *PlatformHandler) UpdateFee(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req UpdateFeeRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	if err := h.platformService.UpdateFee(c.Request().Context(), trainerID, req.FeeBps); err != nil {
		return handlePlatformError(c, err)
	}

	return SuccessResponse(c, "fee updated")
}

type SetSoulStonePriceRequest struct {
	Price uint64 `json:"price" validate:"required,gt=0"`
}

func (h *PlatformHandler) SetSoulStonePrice(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req SetSoulStonePriceRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	if err := h.platformService.SetSoulStonePrice(c.Request().Context(), trainerID, req.Price); err != nil {
		return handlePlatformError(c, err)
	}

	return SuccessResponse(c, "soul stone price updated")
}

type AddTemplateRequest struct {
	TemplateID uint64 `json:"templateId" validate:"required"`
	Name       string `json:"name" validate:"required,max=32"`
	BaseURI    string `json:"baseUri" validate:"required,max=200"`
	Price      uint64 `json:"price" validate:"required,gt=0"`
	HP         uint16 `json:"hp" validate:"required,gt=0"`
	Attack     uint16 `json:"attack" validate:"required,gt=0"`
	Defense    uint16 `json:"defense" validate:"required,gt=0"`
	Speed      uint16 `json:"speed" validate:"required,gt=0"`
}

func (h *PlatformHandler) AddTemplate(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req AddTemplateRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	input := services.AddTemplateInput{
		TemplateID: req.TemplateID,
		Name:       req.Name,
		BaseURI:    req.BaseURI,
		Price:      req.Price,
		Stats: domain.Stats{
			HP:      req.HP,
			Attack:  req.Attack,
			Defense: req.Defense,
			Speed:   req.Speed,
		},
	}

	template, err := h.platformService.AddTemplate(c.Request().Context(), trainerID, input)
	if err != nil {
		return handlePlatformError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.TemplateFromDomain(template))
}

func (h *PlatformHandler) ListTemplates(c echo.Context) error {
	templates, err := h.templateRepo.List()
	if err != nil {
		return ErrInternalServerError(c)
	}

	return c.JSON(http.StatusOK, dto.TemplatesFromDomain(templates))
}

func (h *PlatformHandler) GetTemplate(c echo.Context) error {
	templateID, err := strconv.ParseUint(c.Param("template_id"), 10, 64)
	if err != nil {
		return ErrBadRequest(c, "invalid template id")
	}

	template, err := h.templateRepo.FindByTemplateID(templateID)
	if err != nil {
		if errors.Is(err, repository.ErrTemplateNotFound) {
			return ErrNotFound(c, "template not found")
		}
		return ErrInternalServerError(c)
	}

	return c.JSON(http.StatusOK, dto.TemplateFromDomain(template))
}

type SetTemplateActiveRequest struct {
	Active bool `json:"active"`
}

func (h *PlatformHandler) SetTemplateActive(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	templateID, err := strconv.ParseUint(c.Param("template_id"), 10, 64)
	if err != nil {
		return ErrBadRequest(c, "invalid template id")
	}

	var req SetTemplateActiveRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	if err := h.platformService.SetTemplateActive(c.Request().Context(), trainerID, templateID, req.Active); err != nil {
		return handlePlatformError(c, err)
	}

	return SuccessResponse(c, "template updated")
}

type RewardRequest struct {
	Recipient string `json:"recipient" validate:"required,uuid"`
	Amount    uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *PlatformHandler) Reward(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req RewardRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	recipient, err := uuid.Parse(req.Recipient)
	if err != nil {
		return ErrBadRequest(c, "invalid recipient id")
	}

	if err := h.platformService.Reward(c.Request().Context(), trainerID, recipient, req.Amount); err != nil {
		return handlePlatformError(c, err)
	}

	return SuccessResponse(c, "reward granted")
}

func (h *PlatformHandler) GetTreasury(c echo.Context) error {
	treasury, balance, err := h.platformService.GetTreasury(c.Request().Context())
	if err != nil {
		return handlePlatformError(c, err)
	}

	return c.JSON(http.StatusOK, &dto.Treasury{
		TotalFeesCollected: treasury.TotalFeesCollected,
		CustodiedBalance:   balance,
	})
}

type WithdrawRequest struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *PlatformHandler) Withdraw(c echo.Context) error {
	trainerID, err := middleware.GetTrainerIDFromContext(c.Request().Context())
	if err != nil {
		return ErrUnauthorized(c)
	}

	var req WithdrawRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	if err := h.platformService.Withdraw(c.Request().Context(), trainerID, req.Amount); err != nil {
		return handlePlatformError(c, err)
	}

	return SuccessResponse(c, "withdrawal complete")
}
