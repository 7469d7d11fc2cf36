package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error

	// Delete removes a slot only while it is available; a reserved slot
	// returns ErrReserved.
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error)

	// Reserve flips an available slot to the patient in one conditional
	// update. Losing a race returns ErrUnavailable; an absent slot returns
	// ErrNotFound.
	Reserve(ctx context.Context, id, patientID uuid.UUID) error

	// Cancel releases a slot held by the patient and appends the history
	// entry in the same statement. ErrNotOwned when the patient does not
	// hold the slot.
	Cancel(ctx context.Context, id, patientID uuid.UUID) error

	// HistoryByPatient aggregates cancellation entries across all slots,
	// ordered by cancellation date.
	HistoryByPatient(ctx context.Context, patientID uuid.UUID) ([]CancellationRecord, error)
}
