package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/quadrahub/arena-system/models"
	"github.com/quadrahub/arena-system/repositories"
	"github.com/quadrahub/arena-system/utils"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, input LoginInput) (*models.User, string, error)
}

type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CPF       string `json:"cpf"`
	Password  string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authService struct {
	customers repositories.CustomerRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(customers repositories.CustomerRepository, jwtSecret []byte, tokenTTL time.Duration) AuthService {
	return &authService{
		customers: customers,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(email) {
		return nil, "", fmt.Errorf("%w: invalid email", ErrAuthInvalidCredentials)
	}

	if _, err := s.customers.GetMemberByEmail(ctx, email); err == nil {
		return nil, "", ErrAuthEmailTaken
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, "", fmt.Errorf("failed to check email availability: %w", err)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		Phone:        input.Phone,
		CPF:          input.CPF,
		Role:         models.RolePlayer,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.customers.SaveMember(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create member: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.customers.GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", ErrAuthInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find member by email: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, "", ErrAuthInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	user.PasswordHash = ""
	return user, token, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
