package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turnero/turnero/internal/domain/directory"
	"github.com/turnero/turnero/internal/domain/identity"
	"github.com/turnero/turnero/internal/platform/auth"
)

// DoctorDirectory is the slice of the directory service the booking flow
// needs.
type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*directory.Doctor, error)
}

// UserDirectory resolves patients for reservation checks.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Service struct {
	repo    Repository
	doctors DoctorDirectory
	users   UserDirectory
}

func NewService(repo Repository, doctors DoctorDirectory, users UserDirectory) *Service {
	return &Service{repo: repo, doctors: doctors, users: users}
}

// Create publishes a slot. With a patient id the slot is born reserved,
// otherwise it is available for booking.
func (s *Service) Create(ctx context.Context, doctorID uuid.UUID, date time.Time, timeOfDay string, patientID *uuid.UUID) (*Appointment, error) {
	if strings.TrimSpace(timeOfDay) == "" {
		return nil, ErrTimeRequired
	}
	if _, err := s.doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, ErrDoctorNotFound
	}
	if patientID != nil {
		if err := s.checkPatient(ctx, *patientID); err != nil {
			return nil, err
		}
	}

	a := &Appointment{
		DoctorID:  doctorID,
		Date:      date,
		Time:      timeOfDay,
		Available: patientID == nil,
		PatientID: patientID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	if a.CancellationHistory == nil {
		a.CancellationHistory = []HistoryEntry{}
	}
	return a, nil
}

// Update moves a slot to a new date and time. Reservation state and history
// are untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay string) (*Appointment, error) {
	if strings.TrimSpace(timeOfDay) == "" {
		return nil, ErrTimeRequired
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Date = date
	a.Time = timeOfDay
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an available slot. A reserved slot is kept and reported as a
// conflict so the reservation cannot silently disappear.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Reserve books an available slot for the patient. Concurrent attempts on
// the same slot fail safe: exactly one wins, the rest get ErrUnavailable.
func (s *Service) Reserve(ctx context.Context, id, patientID uuid.UUID) (*Appointment, error) {
	if err := s.checkPatient(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.repo.Reserve(ctx, id, patientID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Cancel releases a slot held by the patient and records the cancellation.
// The history entry is permanent.
func (s *Service) Cancel(ctx context.Context, id, patientID uuid.UUID) (*Appointment, error) {
	if err := s.checkPatient(ctx, patientID); err != nil {
		return nil, err
	}
	if err := s.repo.Cancel(ctx, id, patientID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// CancellationHistory aggregates the patient's cancellations across all
// slots, oldest first.
func (s *Service) CancellationHistory(ctx context.Context, patientID uuid.UUID) ([]CancellationRecord, error) {
	if err := s.checkPatient(ctx, patientID); err != nil {
		return nil, err
	}
	records, err := s.repo.HistoryByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoHistory
	}
	return records, nil
}

func (s *Service) checkPatient(ctx context.Context, id uuid.UUID) error {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, identity.ErrNotFound) {
		return ErrPatientNotFound
	}
	if err != nil {
		return err
	}
	if u.Role != auth.RolePatient {
		return ErrNotPatientRole
	}
	return nil
}
