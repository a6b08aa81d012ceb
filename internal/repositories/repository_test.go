package repositories

import (
	"time"
)

var fixedTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

// userColumns matches the column order of userSelect
var userColumns = []string{
	"id", "email", "password", "first_name", "last_name", "phone_number",
	"is_active", "is_verified", "created_at", "updated_at",
	"role_id", "role_name", "description", "role_created_at", "role_updated_at",
}
