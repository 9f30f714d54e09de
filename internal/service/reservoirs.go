package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

type Reservoirs struct {
	store ReservoirStore
}

func NewReservoirs(store ReservoirStore) *Reservoirs {
	return &Reservoirs{store: store}
}

func (s *Reservoirs) Create(ctx context.Context, r domain.Reservoir) (domain.Reservoir, error) {
	log.Info().Str("name", r.Name).Msg("creating reservoir")
	if err := r.Validate(); err != nil {
		return domain.Reservoir{}, err
	}
	if err := s.store.Create(ctx, &r); err != nil {
		return domain.Reservoir{}, err
	}
	return r, nil
}

func (s *Reservoirs) Update(ctx context.Context, id int64, r domain.Reservoir) (domain.Reservoir, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return domain.Reservoir{}, err
	}
	r.ID = id
	if err := r.Validate(); err != nil {
		return domain.Reservoir{}, err
	}
	if err := s.store.Update(ctx, &r); err != nil {
		return domain.Reservoir{}, err
	}
	s.warnIfLow(r)
	return r, nil
}

// UpdateVolume sets the current volume. A volume above capacity is rejected
// and the stored volume is left untouched.
func (s *Reservoirs) UpdateVolume(ctx context.Context, id int64, volume float64) (domain.Reservoir, error) {
	log.Info().Int64("reservoir_id", id).Float64("volume", volume).Msg("updating reservoir volume")
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Reservoir{}, err
	}
	if math.IsNaN(volume) {
		return domain.Reservoir{}, fmt.Errorf("%w: volume must be a number", domain.ErrValidation)
	}
	if volume > r.TotalCapacity {
		return domain.Reservoir{}, fmt.Errorf("%w: volume %.2f exceeds capacity %.2f", domain.ErrValidation, volume, r.TotalCapacity)
	}
	if volume < 0 {
		return domain.Reservoir{}, fmt.Errorf("%w: volume cannot be negative", domain.ErrValidation)
	}
	if err := s.store.UpdateVolume(ctx, id, volume); err != nil {
		return domain.Reservoir{}, err
	}
	r.CurrentVolume = volume
	s.warnIfLow(r)
	return r, nil
}

func (s *Reservoirs) warnIfLow(r domain.Reservoir) {
	if r.InAlert() {
		log.Warn().Str("name", r.Name).Float64("fill_level", r.FillLevel()).Msg("reservoir below 20% of capacity")
	}
}

func (s *Reservoirs) Get(ctx context.Context, id int64) (domain.Reservoir, error) {
	return s.store.Get(ctx, id)
}

func (s *Reservoirs) List(ctx context.Context) ([]domain.Reservoir, error) {
	return s.store.List(ctx)
}

func (s *Reservoirs) ListInAlert(ctx context.Context) ([]domain.Reservoir, error) {
	return s.store.ListInAlert(ctx)
}

func (s *Reservoirs) ListByLocation(ctx context.Context, location string) ([]domain.Reservoir, error) {
	return s.store.ListByLocation(ctx, location)
}

// FillLevel returns the current volume as a percentage of capacity.
func (s *Reservoirs) FillLevel(ctx context.Context, id int64) (float64, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return r.FillLevel(), nil
}

func (s *Reservoirs) Delete(ctx context.Context, id int64) error {
	log.Info().Int64("reservoir_id", id).Msg("deleting reservoir")
	return s.store.Delete(ctx, id)
}
