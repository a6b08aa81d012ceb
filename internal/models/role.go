package models

import "time"

// Canonical role names. Only these four are ever seeded.
const (
	RoleAdmin  = "ADMIN"
	RoleFarmer = "FARMER"
	RoleDriver = "DRIVER"
	RoleMarket = "MARKET"
)

// Role represents a named category governing a user's capabilities
type Role struct {
	ID          int64     `json:"id"`
	RoleName    string    `json:"roleName"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RoleDefinition describes a role that must exist in the catalog
type RoleDefinition struct {
	Name        string
	Description string
}

// CanonicalRoles returns the fixed catalog in seeding order
func CanonicalRoles() []RoleDefinition {
	return []RoleDefinition{
		{Name: RoleAdmin, Description: "System Administrator with full platform access"},
		{Name: RoleFarmer, Description: "Agricultural producers using farming services"},
		{Name: RoleDriver, Description: "Transportation providers for agricultural logistics"},
		{Name: RoleMarket, Description: "Product vendors managing sales and inventory"},
	}
}
