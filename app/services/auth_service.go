package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zaika-app/zaika/app/models"
	"github.com/zaika-app/zaika/app/repositories"
	"github.com/zaika-app/zaika/pkg/auth"
	"github.com/zaika-app/zaika/pkg/logger"
)

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required|min=2|max=255"`
	Email                string `json:"email" validate:"required|email"`
	Password             string `json:"password" validate:"required|min=6|confirmed"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	Phone                string `json:"phone" validate:"nullable|max=32"`
	Address              string `json:"address" validate:"nullable|max=500"`
}

// LoginInput is the payload for signing in.
type LoginInput struct {
	Email    string `json:"email" validate:"required|email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput is the payload for editing the signed-in user.
type UpdateProfileInput struct {
	Name    string `json:"name" validate:"required|min=2|max=255"`
	Phone   string `json:"phone" validate:"nullable|max=32"`
	Address string `json:"address" validate:"nullable|max=500"`
}

// AuthResult pairs a user with a freshly issued token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService handles registration, login and profile management.
type AuthService struct {
	users *repositories.UserRepository
}

// NewAuthService creates an AuthService.
func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	taken, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("auth: check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Phone:    in.Phone,
		Address:  in.Address,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth: create user: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and returns the user with a signed token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth: sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Me returns the signed-in user's profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	return user, nil
}

// UpdateProfile edits name, phone and address on the signed-in user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}

	user.Name = in.Name
	user.Phone = in.Phone
	user.Address = in.Address
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("auth: update user: %w", err)
	}
	return user, nil
}
