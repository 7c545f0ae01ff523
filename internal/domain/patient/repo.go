package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// ListByRound returns all patients of a round ordered by serial number
	// ascending, with insertion order (created_at, then id) breaking ties.
	ListByRound(ctx context.Context, roundID uuid.UUID) ([]*Patient, error)

	// Search filters a round's patients by a case-insensitive substring match
	// over name, diagnosis and medications, in serial order.
	Search(ctx context.Context, roundID uuid.UUID, term string) ([]*Patient, error)

	Update(ctx context.Context, p *Patient) error

	// UpdatePosition writes a single patient's serial number. It is the unit
	// write that resequencing and reordering fan out over.
	UpdatePosition(ctx context.Context, id uuid.UUID, serialNo int) error

	// MaxPosition returns the highest serial number in the round, 0 when the
	// round has no patients.
	MaxPosition(ctx context.Context, roundID uuid.UUID) (int, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
