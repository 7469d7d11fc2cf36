package directory

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrSpecialtyNotFound = errors.New("specialty not found")
	ErrSpecialtyTaken    = errors.New("specialty already exists")
	ErrNameRequired      = errors.New("name is required")
)

type Specialty struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Doctor struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SpecialtyID uuid.UUID `json:"specialty_id"`

	// Specialty is populated on single-doctor reads and lists.
	Specialty *Specialty `json:"specialty,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
