package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrUnavailable     = errors.New("appointment not available")
	ErrNotOwned        = errors.New("appointment not reserved by this patient")
	ErrReserved        = errors.New("appointment is reserved")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrNotPatientRole  = errors.New("user is not a patient")
	ErrNoHistory       = errors.New("no cancellation history")
	ErrTimeRequired    = errors.New("time is required")
)

// Appointment is a bookable slot published by an admin. An available slot has
// no patient; a reserved slot always has one.
type Appointment struct {
	ID        uuid.UUID  `json:"id"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	Date      time.Time  `json:"date"`
	Time      string     `json:"time"`
	Available bool       `json:"available"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`

	// CancellationHistory is append-only: entries survive any number of
	// later reservations and cancellations of the slot.
	CancellationHistory []HistoryEntry `json:"cancellation_history"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntry records one cancellation of a slot.
type HistoryEntry struct {
	CancellationDate        time.Time `json:"cancellation_date"`
	CanceledByPatient       uuid.UUID `json:"canceled_by_patient"`
	CanceledAppointmentTime string    `json:"canceled_appointment_time"`
}

// CancellationRecord is a history entry joined with the slot it belongs to,
// as returned by the per-patient aggregate view.
type CancellationRecord struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	HistoryEntry
}
