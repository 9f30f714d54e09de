package service

import (
	"context"
	"time"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
)

type PumpStore interface {
	Create(ctx context.Context, p *domain.Pump) error
	Update(ctx context.Context, p *domain.Pump) error
	UpdateStatus(ctx context.Context, id int64, status domain.PumpStatus) error
	Get(ctx context.Context, id int64) (domain.Pump, error)
	GetByReference(ctx context.Context, ref string) (domain.Pump, error)
	List(ctx context.Context) ([]domain.Pump, error)
	ListByStatus(ctx context.Context, status domain.PumpStatus) ([]domain.Pump, error)
	Delete(ctx context.Context, id int64) error
}

type ConsumptionStore interface {
	Insert(ctx context.Context, c *domain.ConsumptionReading) error
	List(ctx context.Context) ([]domain.ConsumptionReading, error)
	ListByPump(ctx context.Context, pumpID int64) ([]domain.ConsumptionReading, error)
	ListByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) ([]domain.ConsumptionReading, error)
	SumByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error)
	SumAll(ctx context.Context) (float64, error)
	ListAbove(ctx context.Context, threshold float64) ([]domain.ConsumptionReading, error)
}

type FlowStore interface {
	Insert(ctx context.Context, f *domain.FlowReading) error
	Get(ctx context.Context, id int64) (domain.FlowReading, error)
	List(ctx context.Context) ([]domain.FlowReading, error)
	ListByPump(ctx context.Context, pumpID int64) ([]domain.FlowReading, error)
	ListBetween(ctx context.Context, pumpID *int64, from, to time.Time) ([]domain.FlowReading, error)
	AverageByPump(ctx context.Context, pumpID int64) (float64, error)
	SumByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error)
	CountByPump(ctx context.Context, pumpID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

type ReservoirStore interface {
	Create(ctx context.Context, r *domain.Reservoir) error
	Update(ctx context.Context, r *domain.Reservoir) error
	UpdateVolume(ctx context.Context, id int64, volume float64) error
	Get(ctx context.Context, id int64) (domain.Reservoir, error)
	List(ctx context.Context) ([]domain.Reservoir, error)
	ListInAlert(ctx context.Context) ([]domain.Reservoir, error)
	ListByLocation(ctx context.Context, location string) ([]domain.Reservoir, error)
	Delete(ctx context.Context, id int64) error
}

// Notifier hands an over-consumption event to a delivery channel. It must not
// wait for delivery.
type Notifier interface {
	Publish(ctx context.Context, ev events.OverConsumptionEvent) error
}

// AvailabilityChecker answers whether a pump may start.
type AvailabilityChecker interface {
	Available(ctx context.Context, pumpID int64) (bool, error)
}

// Energy groups the energy service's components.
type Energy struct {
	Pumps        *PumpDirectory
	Consumptions *ConsumptionRecorder
}

func NewEnergy(pumps PumpStore, consumptions ConsumptionStore, notifier Notifier, threshold float64, m *metrics.Metrics) *Energy {
	return &Energy{
		Pumps:        NewPumpDirectory(pumps),
		Consumptions: NewConsumptionRecorder(pumps, consumptions, notifier, threshold, m),
	}
}

// Water groups the water service's components.
type Water struct {
	Flows      *FlowRecorder
	Reservoirs *Reservoirs
	Listener   *OverConsumptionListener
}

func NewWater(flows FlowStore, reservoirs ReservoirStore, checker AvailabilityChecker, m *metrics.Metrics) *Water {
	return &Water{
		Flows:      NewFlowRecorder(flows, checker, m),
		Reservoirs: NewReservoirs(reservoirs),
		Listener:   NewOverConsumptionListener(flows),
	}
}
