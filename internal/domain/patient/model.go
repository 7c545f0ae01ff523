package patient

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a patient does not exist.
	ErrNotFound = errors.New("patient not found")
	// ErrRoundNotFound is returned when the target round of a create does
	// not exist.
	ErrRoundNotFound = errors.New("round not found")
	// ErrInvalid is wrapped by all validation failures.
	ErrInvalid = errors.New("invalid patient")
)

// Patient maps to the patients table. A patient belongs to exactly one round
// and holds a dense 1-based serial number within it: for a round of N
// patients the serial numbers are exactly {1..N} after any successful
// mutation settles.
type Patient struct {
	ID      uuid.UUID `db:"id" json:"id"`
	RoundID uuid.UUID `db:"round_id" json:"round_id"`
	// UserID is the round owner, denormalized onto the patient row so list
	// queries can filter by owner without a join.
	UserID uuid.UUID `db:"user_id" json:"user_id"`

	Name                string  `db:"name" json:"name"`
	BedNumber           *string `db:"bed_number" json:"bed_number,omitempty"`
	BriefHistory        *string `db:"brief_history" json:"brief_history,omitempty"`
	Diagnosis           *string `db:"diagnosis" json:"diagnosis,omitempty"`
	PhysicalExamination *string `db:"physical_examination" json:"physical_examination,omitempty"`
	Imaging             *string `db:"imaging" json:"imaging,omitempty"`
	LabResult           *string `db:"lab_result" json:"lab_result,omitempty"`
	Incident            *string `db:"incident" json:"incident,omitempty"`
	Medications         *string `db:"medications" json:"medications,omitempty"`
	Plan                *string `db:"plan" json:"plan,omitempty"`
	RoundLabel          *string `db:"round" json:"round,omitempty"`

	SerialNo  int       `db:"serial_no" json:"serial_no"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Fields carries the free-text clinical fields submitted by the patient
// form. Create and Edit both take the full set; serial numbers are never
// part of it.
type Fields struct {
	Name                string `json:"name"`
	BedNumber           string `json:"bed_number"`
	BriefHistory        string `json:"brief_history"`
	Diagnosis           string `json:"diagnosis"`
	PhysicalExamination string `json:"physical_examination"`
	Imaging             string `json:"imaging"`
	LabResult           string `json:"lab_result"`
	Incident            string `json:"incident"`
	Medications         string `json:"medications"`
	Plan                string `json:"plan"`
	RoundLabel          string `json:"round"`
}

// Validate checks the one hard requirement: a non-empty display name.
func (f *Fields) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return nil
}

// apply copies the form fields onto a patient record. Empty strings become
// NULLs so untouched columns stay empty rather than holding "".
func (f *Fields) apply(p *Patient) {
	p.Name = strings.TrimSpace(f.Name)
	p.BedNumber = optional(f.BedNumber)
	p.BriefHistory = optional(f.BriefHistory)
	p.Diagnosis = optional(f.Diagnosis)
	p.PhysicalExamination = optional(f.PhysicalExamination)
	p.Imaging = optional(f.Imaging)
	p.LabResult = optional(f.LabResult)
	p.Incident = optional(f.Incident)
	p.Medications = optional(f.Medications)
	p.Plan = optional(f.Plan)
	p.RoundLabel = optional(f.RoundLabel)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
