package handlers

import (
	"errors"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"

	"genetix/internal/api/dto"
	"genetix/internal/api/services"
	"genetix/internal/repository"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(db *sqlx.DB, jwtKey string) *AuthHandler {
	trainerRepo := repository.NewTrainerRepository(db)
	authService := services.NewAuthService(trainerRepo, jwtKey)

	return &AuthHandler{
		authService: authService,
	}
}

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token   string       `json:"token"`
	Trainer *dto.Trainer `json:"trainer"`
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	serviceInput := services.SignUpInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	trainer, token, err := h.authService.SignUp(c.Request().Context(), serviceInput)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTrainerAlreadyExists):
			return ErrConflict(c, "trainer already exists")
		case errors.Is(err, services.ErrInvalidInput):
			return ErrBadRequest(c, "invalid input")
		default:
			return ErrInternalServerError(c)
		}
	}

	return c.JSON(http.StatusCreated, &AuthResponse{
		Token:   token,
		Trainer: dto.TrainerFromDomain(trainer),
	})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return ErrBadRequest(c, "invalid request")
	}

	if err := c.Validate(&req); err != nil {
		return ErrBadRequest(c, err.Error())
	}

	serviceInput := services.SignInInput{
		Username: req.Username,
		Password: req.Password,
	}

	trainer, token, err := h.authService.SignIn(c.Request().Context(), serviceInput)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return ErrUnauthorized(c)
		case errors.Is(err, services.ErrInvalidInput):
			return ErrBadRequest(c, "invalid input")
		default:
			return ErrInternalServerError(c)
		}
	}

	return c.JSON(http.StatusOK, &AuthResponse{
		Token:   token,
		Trainer: dto.TrainerFromDomain(trainer),
	})
}
