package round

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Round) error
	GetByID(ctx context.Context, id uuid.UUID) (*Round, error)
	GetByRoundNumber(ctx context.Context, roundNumber string) (*Round, error)
	List(ctx context.Context, limit, offset int) ([]*Round, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Round, int, error)
	Update(ctx context.Context, r *Round) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error

	// Stamp records who last touched the round's patient list and bumps the
	// round's date to now.
	Stamp(ctx context.Context, id uuid.UUID, name, email string) error

	// Delete removes the round; its patients go with it (FK cascade).
	Delete(ctx context.Context, id uuid.UUID) error

	PatientCount(ctx context.Context, id uuid.UUID) (int, error)
}
