package patient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nephtalem/MedRounds/internal/platform/realtime"
)

// RoundDirectory resolves a round's owner. The patient service needs it on
// create to denormalize the owning user onto the patient row; it also serves
// as the existence check for the target round.
type RoundDirectory interface {
	OwnerOf(ctx context.Context, roundID uuid.UUID) (uuid.UUID, error)
}

// ActivityStamper records who last touched a round's patient list. The
// implementation must swallow its own failures: stamping is best-effort
// metadata and never fails the patient mutation that triggered it.
type ActivityStamper interface {
	StampActivity(ctx context.Context, roundID uuid.UUID)
}

// TxRunner runs fn inside a storage transaction. Repositories that honor a
// transaction in context issue their statements on it, so multi-write
// operations commit or roll back together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReorderError aggregates the individual write failures of a reorder or
// resequence fan-out. Writes that already landed are not rolled back; the
// recommended recovery is a manual resequence of the round.
type ReorderError struct {
	Total int
	Errs  []error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("reorder: %d of %d position writes failed (first: %v)",
		len(e.Errs), e.Total, e.Errs[0])
}

func (e *ReorderError) Unwrap() []error { return e.Errs }

type Service struct {
	repo    Repository
	rounds  RoundDirectory
	stamper ActivityStamper
	tx      TxRunner
	events  realtime.EventPublisher
	log     zerolog.Logger
}

func NewService(repo Repository, rounds RoundDirectory, log zerolog.Logger) *Service {
	return &Service{repo: repo, rounds: rounds, log: log}
}

// SetActivityStamper attaches an optional stamper invoked after every
// patient mutation.
func (s *Service) SetActivityStamper(st ActivityStamper) {
	s.stamper = st
}

// SetEventPublisher attaches an optional publisher for patient-list change
// events.
func (s *Service) SetEventPublisher(pub realtime.EventPublisher) {
	s.events = pub
}

// SetTxRunner attaches a transaction runner. Delete then runs its
// delete-plus-resequence pair atomically; without one the two writes are
// issued sequentially.
func (s *Service) SetTxRunner(tx TxRunner) {
	s.tx = tx
}

// NextPosition returns the serial number the next patient in the round would
// receive: max existing serial plus one, or 1 for an empty round. Pure read.
func (s *Service) NextPosition(ctx context.Context, roundID uuid.UUID) (int, error) {
	if roundID == uuid.Nil {
		return 0, fmt.Errorf("%w: round_id is required", ErrInvalid)
	}
	max, err := s.repo.MaxPosition(ctx, roundID)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create adds a patient to a round. A serialNo of 0 means "assign the next
// position". A positive serialNo is written verbatim with no collision
// check; bulk-import flows assign provisional positions this way and rely on
// the next resequence to restore density.
func (s *Service) Create(ctx context.Context, roundID uuid.UUID, fields Fields, serialNo int) (*Patient, error) {
	if roundID == uuid.Nil {
		return nil, fmt.Errorf("%w: round_id is required", ErrInvalid)
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	if serialNo < 0 {
		return nil, fmt.Errorf("%w: serial_no must be positive", ErrInvalid)
	}

	ownerID, err := s.rounds.OwnerOf(ctx, roundID)
	if err != nil {
		return nil, err
	}

	if serialNo == 0 {
		serialNo, err = s.NextPosition(ctx, roundID)
		if err != nil {
			return nil, err
		}
	}

	p := &Patient{
		RoundID:  roundID,
		UserID:   ownerID,
		SerialNo: serialNo,
	}
	fields.apply(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.stamp(ctx, roundID)
	s.publish(ctx, realtime.EventPatientCreated, roundID, p.ID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByRound returns the round's patients in serial order. A non-empty
// search term filters by name, diagnosis or medications.
func (s *Service) ListByRound(ctx context.Context, roundID uuid.UUID, term string) ([]*Patient, error) {
	if roundID == uuid.Nil {
		return nil, fmt.Errorf("%w: round_id is required", ErrInvalid)
	}
	if term != "" {
		return s.repo.Search(ctx, roundID, term)
	}
	return s.repo.ListByRound(ctx, roundID)
}

// Edit overwrites a patient's clinical fields. The serial number is never
// touched here.
func (s *Service) Edit(ctx context.Context, id uuid.UUID, fields Fields) (*Patient, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.stamp(ctx, p.RoundID)
	s.publish(ctx, realtime.EventPatientUpdated, p.RoundID, p.ID)
	return p, nil
}

// Delete removes a patient and closes the gap it leaves: the remaining
// siblings are resequenced to 1..N before the round is stamped. With a
// transaction runner wired the delete and resequence commit together, so a
// failed resequence cannot leave a gap behind.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		if err := s.Resequence(ctx, p.RoundID); err != nil {
			return fmt.Errorf("resequence after delete: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.stamp(ctx, p.RoundID)
	s.publish(ctx, realtime.EventPatientDeleted, p.RoundID, id)
	return nil
}

// Resequence rewrites every serial number in the round to its 1-based rank
// in the current order (serial ascending, insertion order breaking ties).
// Idempotent: a second run finds nothing to rewrite. Rows already at their
// rank are skipped. If the initial read fails nothing is written; a failed
// write aborts the walk and can leave the tail untouched, which the next
// resequence repairs.
func (s *Service) Resequence(ctx context.Context, roundID uuid.UUID) error {
	if roundID == uuid.Nil {
		return fmt.Errorf("%w: round_id is required", ErrInvalid)
	}
	patients, err := s.repo.ListByRound(ctx, roundID)
	if err != nil {
		return err
	}
	for i, p := range patients {
		rank := i + 1
		if p.SerialNo == rank {
			continue
		}
		if err := s.repo.UpdatePosition(ctx, p.ID, rank); err != nil {
			return fmt.Errorf("resequence position %d: %w", rank, err)
		}
	}
	return nil
}

// Reorder imposes a caller-supplied full ordering on the round's patients:
// the patient at index i receives serial i+1. The position writes fan out
// concurrently and all of them are attempted; failures are collected into a
// ReorderError and applied writes stay applied. An empty list is a no-op.
//
// Callers must pass the complete unfiltered patient list of the round:
// reordering a filtered or paginated subview would corrupt the global order.
// IDs are not checked for round membership here; ownership enforcement
// belongs to the persistence layer.
func (s *Service) Reorder(ctx context.Context, roundID uuid.UUID, orderedIDs []uuid.UUID) error {
	if roundID == uuid.Nil {
		return fmt.Errorf("%w: round_id is required", ErrInvalid)
	}
	if len(orderedIDs) == 0 {
		return nil
	}

	errs := make([]error, len(orderedIDs))
	var wg sync.WaitGroup
	for i, id := range orderedIDs {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			errs[i] = s.repo.UpdatePosition(ctx, id, i+1)
		}(i, id)
	}
	wg.Wait()

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		return &ReorderError{Total: len(orderedIDs), Errs: failed}
	}

	s.stamp(ctx, roundID)
	s.publish(ctx, realtime.EventPatientsReorder, roundID, uuid.Nil)
	return nil
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}

func (s *Service) stamp(ctx context.Context, roundID uuid.UUID) {
	if s.stamper != nil {
		s.stamper.StampActivity(ctx, roundID)
	}
}

func (s *Service) publish(ctx context.Context, eventType string, roundID, patientID uuid.UUID) {
	if s.events == nil {
		return
	}
	ev := realtime.Event{
		Type:      eventType,
		Topic:     realtime.RoundTopic(roundID),
		RoundID:   roundID.String(),
		Timestamp: time.Now().UTC(),
	}
	if patientID != uuid.Nil {
		ev.PatientID = patientID.String()
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Msg("publish event failed")
	}
}
