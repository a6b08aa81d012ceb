package models

import "time"

// User represents a registered platform user
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"` // Never serialize credentials
	FirstName   string    `json:"firstName"`
	LastName    *string   `json:"lastName"`
	PhoneNumber *string   `json:"phoneNumber"`
	Role        Role      `json:"role"`
	IsActive    bool      `json:"isActive"`
	IsVerified  bool      `json:"isVerified"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FullName returns the first name followed by the last name when present
func (u *User) FullName() string {
	if u.LastName == nil || *u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + *u.LastName
}

// RegisterRequest represents the body of a registration request
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required"`
	Password    string  `json:"password" validate:"required"`
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Role        string  `json:"role" validate:"required"`
}

// RegisterResult is returned after a successful registration
type RegisterResult struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// RegisterResponse represents the body of a registration response
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int64  `json:"userId,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
}

// UserStats holds aggregate user counts
type UserStats struct {
	TotalUsers  int64 `json:"totalUsers"`
	AdminCount  int64 `json:"adminCount"`
	FarmerCount int64 `json:"farmerCount"`
	DriverCount int64 `json:"driverCount"`
	MarketCount int64 `json:"marketCount"`
}
