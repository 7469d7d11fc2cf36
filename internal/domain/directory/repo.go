package directory

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateSpecialty(ctx context.Context, s *Specialty) error
	GetSpecialty(ctx context.Context, id uuid.UUID) (*Specialty, error)
	ListSpecialties(ctx context.Context) ([]*Specialty, error)

	CreateDoctor(ctx context.Context, d *Doctor) error
	GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error)
	UpdateDoctor(ctx context.Context, d *Doctor) error
	ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
}
