package round

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Round statuses. Transitions are user-triggered and never cascade: an
// active round can be completed or archived, and either of those can be
// restored to active.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

var validStatuses = map[string]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusArchived:  true,
}

// ValidStatus reports whether s is one of the three round statuses.
func ValidStatus(s string) bool { return validStatuses[s] }

var (
	// ErrNotFound is returned when a round does not exist.
	ErrNotFound = errors.New("round not found")
	// ErrInvalid is wrapped by all validation failures.
	ErrInvalid = errors.New("invalid round")
)

// Round maps to the rounds table. A round is a named collection of patients
// under one care context: either a dated ad-hoc round or a permanent ward
// identified by its round number. Date holds the timestamp of the last
// clinical update; the LastUpdatedBy fields are the activity stamp.
type Round struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	RoundNumber        *string   `db:"round_number" json:"round_number,omitempty"`
	Date               time.Time `db:"date" json:"date"`
	Status             string    `db:"status" json:"status"`
	LastUpdatedByName  *string   `db:"last_updated_by_name" json:"last_updated_by_name,omitempty"`
	LastUpdatedByEmail *string   `db:"last_updated_by_email" json:"last_updated_by_email,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// RoundWithCount is a round plus the number of patients under it.
type RoundWithCount struct {
	Round
	PatientCount int `json:"patient_count"`
}

// CanTransition reports whether a round may move from one status to another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusActive:
		return to == StatusCompleted || to == StatusArchived
	case StatusCompleted, StatusArchived:
		return to == StatusActive
	}
	return false
}
