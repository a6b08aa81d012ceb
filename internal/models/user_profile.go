package models

import (
	"encoding/json"
	"time"
)

// UserProfile holds optional extended information for a user
type UserProfile struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"userId"`
	Address         *string         `json:"address"`
	City            *string         `json:"city"`
	State           *string         `json:"state"`
	Pincode         *string         `json:"pincode"`
	ProfileImageURL *string         `json:"profileImageUrl"`
	AdditionalInfo  json.RawMessage `json:"additionalInfo,omitempty"` // Role-specific attributes
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// UpsertProfileRequest represents the body of a profile update request
type UpsertProfileRequest struct {
	Address         *string         `json:"address"`
	City            *string         `json:"city"`
	State           *string         `json:"state"`
	Pincode         *string         `json:"pincode"`
	ProfileImageURL *string         `json:"profileImageUrl"`
	AdditionalInfo  json.RawMessage `json:"additionalInfo"`
}
