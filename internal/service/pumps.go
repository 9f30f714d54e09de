package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

// PumpDirectory owns pump records and answers availability queries.
type PumpDirectory struct {
	pumps PumpStore
	now   func() time.Time
}

func NewPumpDirectory(pumps PumpStore) *PumpDirectory {
	return &PumpDirectory{pumps: pumps, now: time.Now}
}

func (d *PumpDirectory) Create(ctx context.Context, p domain.Pump) (domain.Pump, error) {
	log.Info().Str("reference", p.Reference).Msg("creating pump")
	if p.Status == "" {
		p.Status = domain.PumpInactive
	}
	if p.CommissionedAt.IsZero() {
		p.CommissionedAt = d.now().UTC()
	}
	if err := p.Validate(); err != nil {
		return domain.Pump{}, err
	}
	if err := d.ensureReferenceFree(ctx, p.Reference, 0); err != nil {
		return domain.Pump{}, err
	}
	if err := d.pumps.Create(ctx, &p); err != nil {
		return domain.Pump{}, err
	}
	log.Info().Int64("pump_id", p.ID).Str("reference", p.Reference).Msg("pump created")
	return p, nil
}

func (d *PumpDirectory) Update(ctx context.Context, id int64, p domain.Pump) (domain.Pump, error) {
	log.Info().Int64("pump_id", id).Msg("updating pump")
	existing, err := d.pumps.Get(ctx, id)
	if err != nil {
		return domain.Pump{}, err
	}
	p.ID = id
	if p.Status == "" {
		p.Status = existing.Status
	}
	if p.CommissionedAt.IsZero() {
		p.CommissionedAt = existing.CommissionedAt
	}
	if err := p.Validate(); err != nil {
		return domain.Pump{}, err
	}
	if err := d.ensureReferenceFree(ctx, p.Reference, id); err != nil {
		return domain.Pump{}, err
	}
	if err := d.pumps.Update(ctx, &p); err != nil {
		return domain.Pump{}, err
	}
	return p, nil
}

// ensureReferenceFree fails when another pump than self already uses ref.
func (d *PumpDirectory) ensureReferenceFree(ctx context.Context, ref string, self int64) error {
	other, err := d.pumps.GetByReference(ctx, ref)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != self:
		return fmt.Errorf("%w: a pump with reference %s already exists", domain.ErrValidation, ref)
	}
	return nil
}

func (d *PumpDirectory) Get(ctx context.Context, id int64) (domain.Pump, error) {
	return d.pumps.Get(ctx, id)
}

func (d *PumpDirectory) GetByReference(ctx context.Context, ref string) (domain.Pump, error) {
	return d.pumps.GetByReference(ctx, ref)
}

func (d *PumpDirectory) List(ctx context.Context) ([]domain.Pump, error) {
	return d.pumps.List(ctx)
}

func (d *PumpDirectory) ListByStatus(ctx context.Context, status domain.PumpStatus) ([]domain.Pump, error) {
	return d.pumps.ListByStatus(ctx, status)
}

func (d *PumpDirectory) ChangeStatus(ctx context.Context, id int64, status domain.PumpStatus) (domain.Pump, error) {
	if _, err := domain.ParsePumpStatus(string(status)); err != nil {
		return domain.Pump{}, err
	}
	p, err := d.pumps.Get(ctx, id)
	if err != nil {
		return domain.Pump{}, err
	}
	if err := d.pumps.UpdateStatus(ctx, id, status); err != nil {
		return domain.Pump{}, err
	}
	p.Status = status
	log.Info().Str("reference", p.Reference).Str("status", string(status)).Msg("pump status changed")
	return p, nil
}

func (d *PumpDirectory) Delete(ctx context.Context, id int64) error {
	log.Info().Int64("pump_id", id).Msg("deleting pump")
	return d.pumps.Delete(ctx, id)
}

// Availability reports whether the pump may start: its status must be ACTIVE.
// Power budgets and maintenance windows are not considered.
func (d *PumpDirectory) Availability(ctx context.Context, id int64) (bool, error) {
	p, err := d.pumps.Get(ctx, id)
	if err != nil {
		return false, err
	}
	ok := p.Status.Available()
	if ok {
		log.Info().Str("reference", p.Reference).Msg("pump available")
	} else {
		log.Warn().Str("reference", p.Reference).Str("status", string(p.Status)).Msg("pump not available")
	}
	return ok, nil
}
