package directory

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSpecialty(ctx context.Context, name string) (*Specialty, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	sp := &Specialty{Name: name}
	if err := s.repo.CreateSpecialty(ctx, sp); err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *Service) ListSpecialties(ctx context.Context) ([]*Specialty, error) {
	return s.repo.ListSpecialties(ctx)
}

// AddDoctor creates a doctor. The specialty is checked up front so the caller
// gets a not-found instead of a bare constraint violation.
func (s *Service) AddDoctor(ctx context.Context, name string, specialtyID uuid.UUID) (*Doctor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	sp, err := s.repo.GetSpecialty(ctx, specialtyID)
	if err != nil {
		return nil, err
	}

	d := &Doctor{Name: name, SpecialtyID: specialtyID}
	if err := s.repo.CreateDoctor(ctx, d); err != nil {
		return nil, err
	}
	d.Specialty = sp
	return d, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, name string, specialtyID uuid.UUID) (*Doctor, error) {
	d, err := s.repo.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		d.Name = name
	}
	if specialtyID != uuid.Nil && specialtyID != d.SpecialtyID {
		if _, err := s.repo.GetSpecialty(ctx, specialtyID); err != nil {
			return nil, err
		}
		d.SpecialtyID = specialtyID
	}
	if err := s.repo.UpdateDoctor(ctx, d); err != nil {
		return nil, err
	}
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.ListDoctors(ctx, limit, offset)
}
