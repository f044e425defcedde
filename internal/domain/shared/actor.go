package shared

import "github.com/google/uuid"

// Actor is the authenticated user on whose behalf an operation runs. It is
// passed explicitly into every mutation instead of living in ambient
// state; DisplayName is whatever name the user carries right now and is
// what gets frozen into entries and audit records.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	DisplayName string    `json:"display_name"`
}
