package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

const flowColumns = `id, pump_id, flow, unit, measured_at`

type Flows struct {
	db *sqlx.DB
}

func (r *Flows) Insert(ctx context.Context, f *domain.FlowReading) error {
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO flow_readings(pump_id, flow, unit, measured_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		f.PumpID, f.Flow, f.Unit, f.MeasuredAt).Scan(&f.ID)
}

func (r *Flows) Get(ctx context.Context, id int64) (domain.FlowReading, error) {
	var f domain.FlowReading
	err := r.db.GetContext(ctx, &f, `SELECT `+flowColumns+` FROM flow_readings WHERE id=$1`, id)
	return f, translate(err, fmt.Sprintf("flow reading %d", id))
}

func (r *Flows) List(ctx context.Context) ([]domain.FlowReading, error) {
	out := []domain.FlowReading{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+flowColumns+` FROM flow_readings ORDER BY measured_at, id`)
	return out, err
}

func (r *Flows) ListByPump(ctx context.Context, pumpID int64) ([]domain.FlowReading, error) {
	out := []domain.FlowReading{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+flowColumns+` FROM flow_readings WHERE pump_id=$1 ORDER BY measured_at, id`, pumpID)
	return out, err
}

// ListBetween filters by pump when pumpID is non-nil.
func (r *Flows) ListBetween(ctx context.Context, pumpID *int64, from, to time.Time) ([]domain.FlowReading, error) {
	out := []domain.FlowReading{}
	if pumpID == nil {
		err := r.db.SelectContext(ctx, &out,
			`SELECT `+flowColumns+` FROM flow_readings WHERE measured_at >= $1 AND measured_at <= $2 ORDER BY measured_at, id`, from, to)
		return out, err
	}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+flowColumns+` FROM flow_readings
		 WHERE pump_id=$1 AND measured_at >= $2 AND measured_at <= $3 ORDER BY measured_at, id`, *pumpID, from, to)
	return out, err
}

func (r *Flows) AverageByPump(ctx context.Context, pumpID int64) (float64, error) {
	var avg float64
	err := r.db.GetContext(ctx, &avg, `SELECT COALESCE(AVG(flow), 0) FROM flow_readings WHERE pump_id=$1`, pumpID)
	return avg, err
}

func (r *Flows) SumByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(flow), 0) FROM flow_readings
		 WHERE pump_id=$1 AND measured_at >= $2 AND measured_at <= $3`, pumpID, from, to)
	return total, err
}

func (r *Flows) CountByPump(ctx context.Context, pumpID int64) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM flow_readings WHERE pump_id=$1`, pumpID)
	return n, err
}

func (r *Flows) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flow_readings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(res, fmt.Sprintf("flow reading %d", id))
}

const reservoirColumns = `id, name, total_capacity, current_volume, location`

type Reservoirs struct {
	db *sqlx.DB
}

func (r *Reservoirs) Create(ctx context.Context, res *domain.Reservoir) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO reservoirs(name, total_capacity, current_volume, location) VALUES ($1,$2,$3,$4) RETURNING id`,
		res.Name, res.TotalCapacity, res.CurrentVolume, res.Location).Scan(&res.ID)
	return translate(err, "reservoir "+res.Name)
}

func (r *Reservoirs) Update(ctx context.Context, res *domain.Reservoir) error {
	out, err := r.db.ExecContext(ctx,
		`UPDATE reservoirs SET name=$2, total_capacity=$3, current_volume=$4, location=$5 WHERE id=$1`,
		res.ID, res.Name, res.TotalCapacity, res.CurrentVolume, res.Location)
	if err != nil {
		return translate(err, "reservoir "+res.Name)
	}
	return affected(out, fmt.Sprintf("reservoir %d", res.ID))
}

func (r *Reservoirs) UpdateVolume(ctx context.Context, id int64, volume float64) error {
	out, err := r.db.ExecContext(ctx, `UPDATE reservoirs SET current_volume=$2 WHERE id=$1`, id, volume)
	if err != nil {
		return translate(err, fmt.Sprintf("reservoir %d", id))
	}
	return affected(out, fmt.Sprintf("reservoir %d", id))
}

func (r *Reservoirs) Get(ctx context.Context, id int64) (domain.Reservoir, error) {
	var res domain.Reservoir
	err := r.db.GetContext(ctx, &res, `SELECT `+reservoirColumns+` FROM reservoirs WHERE id=$1`, id)
	return res, translate(err, fmt.Sprintf("reservoir %d", id))
}

func (r *Reservoirs) List(ctx context.Context) ([]domain.Reservoir, error) {
	out := []domain.Reservoir{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+reservoirColumns+` FROM reservoirs ORDER BY id`)
	return out, err
}

// ListInAlert returns reservoirs below the alert ratio of their capacity.
func (r *Reservoirs) ListInAlert(ctx context.Context) ([]domain.Reservoir, error) {
	out := []domain.Reservoir{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+reservoirColumns+` FROM reservoirs WHERE current_volume < total_capacity * $1 ORDER BY id`, domain.AlertRatio)
	return out, err
}

func (r *Reservoirs) ListByLocation(ctx context.Context, location string) ([]domain.Reservoir, error) {
	out := []domain.Reservoir{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+reservoirColumns+` FROM reservoirs WHERE location=$1 ORDER BY id`, location)
	return out, err
}

func (r *Reservoirs) Delete(ctx context.Context, id int64) error {
	out, err := r.db.ExecContext(ctx, `DELETE FROM reservoirs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(out, fmt.Sprintf("reservoir %d", id))
}
