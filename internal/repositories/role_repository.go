package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/krishisaarathi/backend/internal/models"
	"go.uber.org/zap"
)

// ErrRoleNotFound is returned when no role has the requested name
var ErrRoleNotFound = errors.New("role not found")

type roleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB, logger *zap.Logger) *roleRepository {
	return &roleRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new role. Timestamps are stamped by the database.
func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	query := `INSERT INTO roles (role_name, description) VALUES (?, ?)`

	result, err := r.db.ExecContext(ctx, query, role.RoleName, role.Description)
	if err != nil {
		r.logger.Error("failed to create role", zap.Error(err), zap.String("roleName", role.RoleName))
		return fmt.Errorf("failed to create role: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	role.ID = id
	return nil
}

// ExistsByName checks if a role with the given name exists
func (r *roleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM roles WHERE role_name = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		r.logger.Error("failed to check role existence", zap.Error(err), zap.String("roleName", name))
		return false, fmt.Errorf("failed to check role existence: %w", err)
	}

	return exists, nil
}

// GetByName retrieves a role by its exact name
func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	query := `
		SELECT id, role_name, COALESCE(description, ''), created_at, updated_at
		FROM roles
		WHERE role_name = ?
		LIMIT 1
	`

	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&role.ID,
		&role.RoleName,
		&role.Description,
		&role.CreatedAt,
		&role.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		r.logger.Error("failed to get role by name", zap.Error(err), zap.String("roleName", name))
		return nil, fmt.Errorf("failed to get role by name: %w", err)
	}

	return role, nil
}

// GetAll retrieves all roles ordered by id
func (r *roleRepository) GetAll(ctx context.Context) ([]models.Role, error) {
	query := `
		SELECT id, role_name, COALESCE(description, ''), created_at, updated_at
		FROM roles
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to query roles", zap.Error(err))
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	roles := []models.Role{}
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.RoleName, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			r.logger.Error("failed to scan role", zap.Error(err))
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return roles, nil
}
