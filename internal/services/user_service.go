package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/krishisaarathi/backend/internal/auth"
	"github.com/krishisaarathi/backend/internal/models"
	"github.com/krishisaarathi/backend/internal/repositories"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for Users table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter must reference an existing role through user.Role.ID and is filled with the generated ID on success.
	// A duplicate email is rejected by the storage layer and returned as an error.
	Create(ctx context.Context, user *models.User) error
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method GetByID retrieves a user together with its role.
	//
	// If user with such ID does not exist, repositories.ErrUserNotFound will be returned.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Method GetAll retrieves every user together with its role.
	GetAll(ctx context.Context) ([]models.User, error)
	// Method GetByRoleName retrieves users holding the role with the given canonical name.
	//
	// "activeOnly" parameter skips inactive users when set.
	GetByRoleName(ctx context.Context, roleName string, activeOnly bool) ([]models.User, error)
	// Method Count returns the total number of users.
	Count(ctx context.Context) (int64, error)
	// Method CountByRole returns the number of users per role name.
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type userService struct {
	userRepo UserRepository
	roleRepo RoleRepository
	encoder  auth.PasswordEncoder
	validate *validator.Validate
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo UserRepository, roleRepo RoleRepository, encoder auth.PasswordEncoder, logger *zap.Logger) *userService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		encoder:  encoder,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Register validates the request, resolves the role and creates the user.
//
// Checks run in order and the first failure wins: required fields (ErrMissingFields),
// email uniqueness (ErrDuplicateEmail), role resolution (ErrUnknownRole).
// Any other failure is returned as a *RegistrationError.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResult, error) {
	if req == nil {
		return nil, ErrMissingFields
	}

	input := *req
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.Role = strings.TrimSpace(input.Role)
	if strings.TrimSpace(input.Password) == "" {
		input.Password = ""
	}
	if err := s.validate.Struct(&input); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, ErrMissingFields
		}
		return nil, &RegistrationError{Err: err}
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	role, err := s.roleRepo.GetByName(ctx, strings.ToUpper(input.Role))
	if errors.Is(err, repositories.ErrRoleNotFound) {
		return nil, ErrUnknownRole
	}
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}

	password, err := s.encoder.Encode(input.Password)
	if err != nil {
		return nil, &RegistrationError{Err: err}
	}

	user := &models.User{
		Email:       input.Email,
		Password:    password,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		PhoneNumber: input.PhoneNumber,
		Role:        *role,
		IsActive:    true,
		IsVerified:  false,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, &RegistrationError{Err: err}
	}

	s.logger.Info("user registered",
		zap.Int64("userId", user.ID),
		zap.String("email", user.Email),
		zap.String("role", role.RoleName),
	)

	return &models.RegisterResult{
		UserID: user.ID,
		Email:  user.Email,
		Role:   role.RoleName,
	}, nil
}

// ListRoles retrieves the role catalog
func (s *userService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roleRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	return roles, nil
}

// ListUsers retrieves every user
func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// ListUsersByRole retrieves users of a role, matching the role name case-insensitively.
// An unknown role yields an empty list.
func (s *userService) ListUsersByRole(ctx context.Context, roleName string, activeOnly bool) ([]models.User, error) {
	canonical := strings.ToUpper(strings.TrimSpace(roleName))

	users, err := s.userRepo.GetByRoleName(ctx, canonical, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}
	return users, nil
}

// GetUser retrieves a single user
func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Stats computes the total number of users and the count per canonical role
func (s *userService) Stats(ctx context.Context) (*models.UserStats, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	perRole, err := s.userRepo.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	// Missing keys read as zero
	return &models.UserStats{
		TotalUsers:  total,
		AdminCount:  perRole[models.RoleAdmin],
		FarmerCount: perRole[models.RoleFarmer],
		DriverCount: perRole[models.RoleDriver],
		MarketCount: perRole[models.RoleMarket],
	}, nil
}
