package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

const pumpColumns = `id, reference, power_kw, status, commissioned_at`

type Pumps struct {
	db *sqlx.DB
}

func (r *Pumps) Create(ctx context.Context, p *domain.Pump) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO pumps(reference, power_kw, status, commissioned_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		p.Reference, p.PowerKW, p.Status, p.CommissionedAt).Scan(&p.ID)
	return translate(err, "pump "+p.Reference)
}

func (r *Pumps) Update(ctx context.Context, p *domain.Pump) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pumps SET reference=$2, power_kw=$3, status=$4, commissioned_at=$5 WHERE id=$1`,
		p.ID, p.Reference, p.PowerKW, p.Status, p.CommissionedAt)
	if err != nil {
		return translate(err, "pump "+p.Reference)
	}
	return affected(res, fmt.Sprintf("pump %d", p.ID))
}

func (r *Pumps) UpdateStatus(ctx context.Context, id int64, status domain.PumpStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE pumps SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	return affected(res, fmt.Sprintf("pump %d", id))
}

func (r *Pumps) Get(ctx context.Context, id int64) (domain.Pump, error) {
	var p domain.Pump
	err := r.db.GetContext(ctx, &p, `SELECT `+pumpColumns+` FROM pumps WHERE id=$1`, id)
	return p, translate(err, fmt.Sprintf("pump %d", id))
}

func (r *Pumps) GetByReference(ctx context.Context, ref string) (domain.Pump, error) {
	var p domain.Pump
	err := r.db.GetContext(ctx, &p, `SELECT `+pumpColumns+` FROM pumps WHERE reference=$1`, ref)
	return p, translate(err, "pump "+ref)
}

func (r *Pumps) List(ctx context.Context) ([]domain.Pump, error) {
	out := []domain.Pump{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+pumpColumns+` FROM pumps ORDER BY id`)
	return out, err
}

func (r *Pumps) ListByStatus(ctx context.Context, status domain.PumpStatus) ([]domain.Pump, error) {
	out := []domain.Pump{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+pumpColumns+` FROM pumps WHERE status=$1 ORDER BY id`, status)
	return out, err
}

func (r *Pumps) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pumps WHERE id=$1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return fmt.Errorf("%w: pump %d still has consumption readings", domain.ErrValidation, id)
		}
		return translate(err, fmt.Sprintf("pump %d", id))
	}
	return affected(res, fmt.Sprintf("pump %d", id))
}

const consumptionColumns = `id, pump_id, energy_used_kwh, duration_hours, measured_at`

type Consumptions struct {
	db *sqlx.DB
}

func (r *Consumptions) Insert(ctx context.Context, c *domain.ConsumptionReading) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO consumption_readings(pump_id, energy_used_kwh, duration_hours, measured_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		c.PumpID, c.EnergyUsedKWh, c.DurationHours, c.MeasuredAt).Scan(&c.ID)
	return translate(err, fmt.Sprintf("consumption for pump %d", c.PumpID))
}

func (r *Consumptions) List(ctx context.Context) ([]domain.ConsumptionReading, error) {
	out := []domain.ConsumptionReading{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+consumptionColumns+` FROM consumption_readings ORDER BY measured_at, id`)
	return out, err
}

func (r *Consumptions) ListByPump(ctx context.Context, pumpID int64) ([]domain.ConsumptionReading, error) {
	out := []domain.ConsumptionReading{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+consumptionColumns+` FROM consumption_readings WHERE pump_id=$1 ORDER BY measured_at, id`, pumpID)
	return out, err
}

func (r *Consumptions) ListByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) ([]domain.ConsumptionReading, error) {
	out := []domain.ConsumptionReading{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+consumptionColumns+` FROM consumption_readings
		 WHERE pump_id=$1 AND measured_at >= $2 AND measured_at <= $3 ORDER BY measured_at, id`, pumpID, from, to)
	return out, err
}

func (r *Consumptions) SumByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(energy_used_kwh), 0) FROM consumption_readings
		 WHERE pump_id=$1 AND measured_at >= $2 AND measured_at <= $3`, pumpID, from, to)
	return total, err
}

func (r *Consumptions) SumAll(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(energy_used_kwh), 0) FROM consumption_readings`)
	return total, err
}

func (r *Consumptions) ListAbove(ctx context.Context, threshold float64) ([]domain.ConsumptionReading, error) {
	out := []domain.ConsumptionReading{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+consumptionColumns+` FROM consumption_readings WHERE energy_used_kwh > $1 ORDER BY measured_at, id`, threshold)
	return out, err
}
