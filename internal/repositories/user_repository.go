package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/krishisaarathi/backend/internal/models"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

const userSelect = `
	SELECT u.id, u.email, u.password, u.first_name, u.last_name, u.phone_number,
		u.is_active, u.is_verified, u.created_at, u.updated_at,
		r.id, r.role_name, COALESCE(r.description, ''), r.created_at, r.updated_at
	FROM users u
	JOIN roles r ON r.id = u.role_id
`

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user into the database.
// The unique index on email rejects a concurrent duplicate that slipped past ExistsByEmail.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password, first_name, last_name, phone_number, role_id, is_active, is_verified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.Role.ID,
		user.IsActive,
		user.IsVerified,
	)
	if err != nil {
		r.logger.Error("failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// GetByID retrieves a user with its role
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := userSelect + ` WHERE u.id = ? LIMIT 1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int64("userId", id))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetAll retrieves every user with its role
func (r *userRepository) GetAll(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, userSelect+` ORDER BY u.id`)
}

// GetByRoleName retrieves users holding the role with the given name.
// When activeOnly is set, inactive users are skipped.
func (r *userRepository) GetByRoleName(ctx context.Context, roleName string, activeOnly bool) ([]models.User, error) {
	if activeOnly {
		return r.list(ctx, userSelect+` WHERE r.role_name = ? AND u.is_active = TRUE ORDER BY u.id`, roleName)
	}
	return r.list(ctx, userSelect+` WHERE r.role_name = ? ORDER BY u.id`, roleName)
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM users`

	var count int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		r.logger.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// CountByRole returns the number of users per role name.
// Every role in the catalog is present in the result, with zero when nobody holds it.
func (r *userRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	query := `
		SELECT r.role_name, COUNT(u.id)
		FROM roles r
		LEFT JOIN users u ON u.role_id = r.id
		GROUP BY r.role_name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to count users by role", zap.Error(err))
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			name  string
			count int64
		)
		if err := rows.Scan(&name, &count); err != nil {
			r.logger.Error("failed to scan role count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		counts[name] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

func (r *userRepository) list(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one row produced by userSelect
func scanUser(row rowScanner) (*models.User, error) {
	var (
		user        models.User
		lastName    sql.NullString
		phoneNumber sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&lastName,
		&phoneNumber,
		&user.IsActive,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Role.ID,
		&user.Role.RoleName,
		&user.Role.Description,
		&user.Role.CreatedAt,
		&user.Role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.LastName = nullStringPtr(lastName)
	user.PhoneNumber = nullStringPtr(phoneNumber)
	return &user, nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
