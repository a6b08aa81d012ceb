package services

import (
	"context"
	"fmt"

	"github.com/krishisaarathi/backend/internal/models"
	"go.uber.org/zap"
)

// RoleRepository is the interface that wraps methods for Roles table data access
type RoleRepository interface {
	// Method Create inserts a new role into the database.
	//
	// "role" parameter is filled with the generated ID on success.
	Create(ctx context.Context, role *models.Role) error
	// Method ExistsByName checks if a role with such name exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Method GetByName retrieves a role by its canonical (upper case) name.
	//
	// If role with such name does not exist, repositories.ErrRoleNotFound will be returned.
	GetByName(ctx context.Context, name string) (*models.Role, error)
	// Method GetAll retrieves all roles ordered by ID.
	GetAll(ctx context.Context) ([]models.Role, error)
}

type roleService struct {
	repo   RoleRepository
	logger *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(repo RoleRepository, logger *zap.Logger) *roleService {
	return &roleService{
		repo:   repo,
		logger: logger,
	}
}

// SeedRoles makes sure every canonical role exists and returns the resulting catalog.
//
// Existing roles are left untouched, so the method is safe to run on every start.
func (s *roleService) SeedRoles(ctx context.Context) ([]models.Role, error) {
	s.logger.Info("initializing role catalog")

	for _, def := range models.CanonicalRoles() {
		exists, err := s.repo.ExistsByName(ctx, def.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check role %s: %w", def.Name, err)
		}
		if exists {
			s.logger.Info("role already exists", zap.String("role", def.Name))
			continue
		}

		role := &models.Role{RoleName: def.Name, Description: def.Description}
		if err := s.repo.Create(ctx, role); err != nil {
			return nil, fmt.Errorf("failed to create role %s: %w", def.Name, err)
		}
		s.logger.Info("created role", zap.String("role", def.Name), zap.Int64("id", role.ID))
	}

	roles, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	s.logger.Info("role catalog ready", zap.Int("totalRoles", len(roles)))
	for _, role := range roles {
		s.logger.Info("role", zap.String("name", role.RoleName), zap.Int64("id", role.ID))
	}

	return roles, nil
}
