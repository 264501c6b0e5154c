// Package models defines client-side data models shared by the FieldSync
// session, presence, and attendance layers.
package models

// Roles assigned by the platform backend.
const (
	RoleTrainee = "trainee"
	RoleTrainer = "trainer"
)

// Identity is the denormalized snapshot of the signed-in user, cached
// locally for display and heartbeat payloads. The cloud backend remains the
// source of truth; the snapshot is refreshed on login and on profile fetch.
type Identity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
}

// IsTrainee reports whether the identity holds the trainee capability that
// the presence beacon requires.
func (i Identity) IsTrainee() bool {
	return i.Role == RoleTrainee
}
