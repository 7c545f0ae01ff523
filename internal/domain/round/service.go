package round

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nephtalem/MedRounds/internal/platform/auth"
	"github.com/nephtalem/MedRounds/internal/platform/realtime"
)

type Service struct {
	repo   Repository
	events realtime.EventPublisher
	log    zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetEventPublisher attaches an optional publisher for round change events.
func (s *Service) SetEventPublisher(pub realtime.EventPublisher) {
	s.events = pub
}

// Create opens a new round. An empty roundNumber is allowed (ad-hoc dated
// rounds); permanent wards pass their ward name. A zero date defaults to now.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, roundNumber string, date time.Time) (*Round, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalid)
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	rnd := &Round{
		UserID: userID,
		Date:   date,
		Status: StatusActive,
	}
	if roundNumber != "" {
		rnd.RoundNumber = &roundNumber
	}
	if err := s.repo.Create(ctx, rnd); err != nil {
		return nil, err
	}
	return rnd, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Round, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByRoundNumber resolves a permanent ward by its display name.
func (s *Service) GetByRoundNumber(ctx context.Context, roundNumber string) (*Round, error) {
	if roundNumber == "" {
		return nil, fmt.Errorf("%w: round number is required", ErrInvalid)
	}
	return s.repo.GetByRoundNumber(ctx, roundNumber)
}

// GetWithCount returns the round along with its patient count.
func (s *Service) GetWithCount(ctx context.Context, id uuid.UUID) (*RoundWithCount, error) {
	rnd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.PatientCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoundWithCount{Round: *rnd, PatientCount: count}, nil
}

// List returns rounds ordered by date descending, optionally filtered by
// status.
func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Round, int, error) {
	if status == "" {
		return s.repo.List(ctx, limit, offset)
	}
	if !ValidStatus(status) {
		return nil, 0, fmt.Errorf("%w: invalid status %q", ErrInvalid, status)
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

// Update changes a round's label or date. Status changes go through
// UpdateStatus so transitions stay validated.
func (s *Service) Update(ctx context.Context, id uuid.UUID, roundNumber string, date time.Time) (*Round, error) {
	rnd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if roundNumber != "" {
		rnd.RoundNumber = &roundNumber
	}
	if !date.IsZero() {
		rnd.Date = date
	}
	if err := s.repo.Update(ctx, rnd); err != nil {
		return nil, err
	}
	return rnd, nil
}

// UpdateStatus moves a round between active, completed and archived.
// Only user-triggered transitions are allowed: active can be completed or
// archived, and a completed or archived round can be restored to active.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Round, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalid, status)
	}
	rnd, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rnd.Status == status {
		return rnd, nil
	}
	if !CanTransition(rnd.Status, status) {
		return nil, fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalid, rnd.Status, status)
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	rnd.Status = status
	s.publish(ctx, id)
	return rnd, nil
}

// Delete removes the round and all its patients.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// StampActivity records who last modified the round's patient list. The
// identity comes from the request context; anonymous callers are skipped
// silently. Failures are logged and swallowed: a missing stamp must never
// fail the patient mutation the user is waiting on.
func (s *Service) StampActivity(ctx context.Context, roundID uuid.UUID) {
	identity := auth.IdentityFromContext(ctx)
	if identity == nil || identity.Email == "" {
		return
	}
	if err := s.repo.Stamp(ctx, roundID, identity.DisplayName(), identity.Email); err != nil {
		s.log.Warn().Err(err).
			Str("round_id", roundID.String()).
			Str("email", identity.Email).
			Msg("activity stamp failed")
	}
}

func (s *Service) publish(ctx context.Context, roundID uuid.UUID) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, realtime.Event{
		Type:      realtime.EventRoundUpdated,
		Topic:     realtime.RoundTopic(roundID),
		RoundID:   roundID.String(),
		Timestamp: time.Now().UTC(),
	})
}
