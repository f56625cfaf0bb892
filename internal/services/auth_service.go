package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Data Transfer Objects (DTOs) ---

// LoginRequest DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterUserRequest DTO. Self-registration is limited to clients and staff.
type RegisterUserRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"omitempty,oneof=client staff"` // defaults to client
}

// CreateUserRequest DTO, used by admins to create accounts of any role.
type CreateUserRequest struct {
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role" binding:"required,oneof=client staff manager admin"`
}

// AuthResponse DTO
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// --- AuthService Interface ---
type AuthService interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, error)
	CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*models.User, error)
	LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetUserProfile(ctx context.Context, userID int64) (*models.User, error)
	ListUsers(ctx context.Context, actor Actor, role *string) ([]models.User, error)
}

// --- authService Implementation ---
type authService struct {
	store  repositories.Store
	tokens *utils.TokenManager
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(store repositories.Store, tokens *utils.TokenManager) AuthService {
	return &authService{store: store, tokens: tokens}
}

// RegisterUser handles public sign-up.
func (s *authService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*models.User, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	role := strings.ToLower(req.Role)
	if role == "" {
		role = models.RoleClient
	}
	return s.createUser(ctx, req.FullName, req.Email, req.Password, req.Phone, role)
}

// CreateUser lets an admin create an account with any role.
func (s *authService) CreateUser(ctx context.Context, actor Actor, req CreateUserRequest) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req.FullName, req.Email, req.Password, req.Phone, strings.ToLower(req.Role))
}

func (s *authService) createUser(ctx context.Context, fullName, email, password string, phone *string, role string) (*models.User, error) {
	if utils.IsEmpty(fullName) {
		return nil, invalidField("full_name", "is required")
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         role,
		Phone:        utils.TrimmedPtr(phone),
		IsActive:     true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	utils.LogInfo("User created", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return user, nil
}

// LoginUser handles user login and token generation.
func (s *authService) LoginUser(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetUserProfile retrieves a user's profile by their ID.
func (s *authService) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound, "retrieve user profile")
	}
	return user, nil
}

// ListUsers lets managers look up staff to assign.
func (s *authService) ListUsers(ctx context.Context, actor Actor, role *string) ([]models.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if role != nil && !models.IsValidRole(*role) {
		return nil, invalidField("role", "must be one of: client staff manager admin")
	}
	users, err := s.store.Users().List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
