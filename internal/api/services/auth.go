package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"genetix/internal/domain"
	"genetix/internal/repository"
	"genetix/internal/util"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrTrainerAlreadyExists = errors.New("trainer already exists")
	ErrInternalError        = errors.New("internal server error")
)

type SignUpInput struct {
	Username string `valid:"required,length(3|20)"`
	Email    string `valid:"required,email"`
	Password string `valid:"required,length(3|20)"`
}

type SignInInput struct {
	Username string `valid:"required,length(3|20)"`
	Password string `valid:"required,length(3|20)"`
}

type AuthService struct {
	trainerRepo *repository.TrainerRepository
	jwtKey      string
}

func NewAuthService(trainerRepo *repository.TrainerRepository, jwtKey string) *AuthService {
	return &AuthService{
		trainerRepo: trainerRepo,
		jwtKey:      jwtKey,
	}
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*domain.Trainer, string, error) {
	if _, err := govalidator.ValidateStruct(input); err != nil {
		return nil, "", ErrInvalidInput
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, "", ErrInternalError
	}

	trainer := &domain.Trainer{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
	}

	if err := s.trainerRepo.Create(trainer); err != nil {
		if errors.Is(err, repository.ErrTrainerExists) {
			return nil, "", ErrTrainerAlreadyExists
		}
		return nil, "", ErrInternalError
	}

	token, err := s.generateJWTToken(trainer.ID)
	if err != nil {
		return nil, "", ErrInternalError
	}

	return trainer, token, nil
}

func (s *AuthService) SignIn(ctx context.Context, input SignInInput) (*domain.Trainer, string, error) {
	if _, err := govalidator.ValidateStruct(input); err != nil {
		return nil, "", ErrInvalidInput
	}

	trainer, err := s.trainerRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrTrainerNotFound) || errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", ErrInternalError
	}

	if !util.CheckPassword(trainer.Password, input.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateJWTToken(trainer.ID)
	if err != nil {
		return nil, "", ErrInternalError
	}

	return trainer, token, nil
}

func (s *AuthService) generateJWTToken(trainerID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"id":  trainerID.String(),
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtKey))
}
