package models

// MessageResponse is the generic failure body used by the user endpoints
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
