package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krishisaarathi/backend/internal/models"
	"go.uber.org/zap"
)

// ErrProfileNotFound is returned when a user has no profile row
var ErrProfileNotFound = errors.New("profile not found")

type userProfileRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserProfileRepository creates a new user profile repository
func NewUserProfileRepository(db *sql.DB, logger *zap.Logger) *userProfileRepository {
	return &userProfileRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID retrieves the profile owned by the given user
func (r *userProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT id, user_id, address, city, state, pincode, profile_image_url, additional_info, created_at, updated_at
		FROM user_profiles
		WHERE user_id = ?
		LIMIT 1
	`

	var (
		profile                                   models.UserProfile
		address, city, state, pincode, profileURL sql.NullString
		additionalInfo                            []byte
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&address,
		&city,
		&state,
		&pincode,
		&profileURL,
		&additionalInfo,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		r.logger.Error("failed to get profile by user id", zap.Error(err), zap.Int64("userId", userID))
		return nil, fmt.Errorf("failed to get profile by user id: %w", err)
	}

	profile.Address = nullStringPtr(address)
	profile.City = nullStringPtr(city)
	profile.State = nullStringPtr(state)
	profile.Pincode = nullStringPtr(pincode)
	profile.ProfileImageURL = nullStringPtr(profileURL)
	if len(additionalInfo) > 0 {
		profile.AdditionalInfo = json.RawMessage(additionalInfo)
	}

	return &profile, nil
}

// Upsert creates the profile for profile.UserID or replaces its fields
func (r *userProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, address, city, state, pincode, profile_image_url, additional_info)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			address = VALUES(address),
			city = VALUES(city),
			state = VALUES(state),
			pincode = VALUES(pincode),
			profile_image_url = VALUES(profile_image_url),
			additional_info = VALUES(additional_info)
	`

	var additionalInfo any
	if len(profile.AdditionalInfo) > 0 {
		additionalInfo = string(profile.AdditionalInfo)
	}

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.Address,
		profile.City,
		profile.State,
		profile.Pincode,
		profile.ProfileImageURL,
		additionalInfo,
	)
	if err != nil {
		r.logger.Error("failed to upsert profile", zap.Error(err), zap.Int64("userId", profile.UserID))
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}
