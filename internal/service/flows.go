package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
)

// DefaultFlowUnit is used when a reading does not carry a unit.
const DefaultFlowUnit = "m3/h"

// FlowRecorder persists flow readings once the energy service has confirmed
// the pump is available.
type FlowRecorder struct {
	flows   FlowStore
	checker AvailabilityChecker
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewFlowRecorder(flows FlowStore, checker AvailabilityChecker, m *metrics.Metrics) *FlowRecorder {
	return &FlowRecorder{flows: flows, checker: checker, metrics: m, now: time.Now}
}

// Record stores the reading only if the availability check answers true.
// A negative answer or a checker error rejects the reading.
func (r *FlowRecorder) Record(ctx context.Context, pumpID int64, flow float64, unit string, measuredAt time.Time) (domain.FlowReading, error) {
	log.Info().Int64("pump_id", pumpID).Msg("recording flow measurement")

	ok, err := r.checker.Available(ctx, pumpID)
	if err != nil {
		r.metrics.FlowRejected("error")
		log.Error().Err(err).Int64("pump_id", pumpID).Msg("availability check failed")
		return domain.FlowReading{}, fmt.Errorf("check availability of pump %d: %w", pumpID, err)
	}
	if !ok {
		r.metrics.FlowRejected("unavailable")
		log.Warn().Int64("pump_id", pumpID).Msg("insufficient electrical availability")
		return domain.FlowReading{}, fmt.Errorf("%w: pump %d cannot start", domain.ErrPumpUnavailable, pumpID)
	}

	if strings.TrimSpace(unit) == "" {
		unit = DefaultFlowUnit
	}
	if measuredAt.IsZero() {
		measuredAt = r.now().UTC()
	}
	f := domain.FlowReading{PumpID: pumpID, Flow: flow, Unit: unit, MeasuredAt: measuredAt}
	if err := r.flows.Insert(ctx, &f); err != nil {
		return domain.FlowReading{}, err
	}
	return f, nil
}

// CheckEnergy exposes the raw availability answer.
func (r *FlowRecorder) CheckEnergy(ctx context.Context, pumpID int64) (bool, error) {
	return r.checker.Available(ctx, pumpID)
}

func (r *FlowRecorder) Get(ctx context.Context, id int64) (domain.FlowReading, error) {
	return r.flows.Get(ctx, id)
}

func (r *FlowRecorder) List(ctx context.Context) ([]domain.FlowReading, error) {
	return r.flows.List(ctx)
}

func (r *FlowRecorder) ListByPump(ctx context.Context, pumpID int64) ([]domain.FlowReading, error) {
	return r.flows.ListByPump(ctx, pumpID)
}

func (r *FlowRecorder) ListBetween(ctx context.Context, pumpID *int64, from, to time.Time) ([]domain.FlowReading, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return r.flows.ListBetween(ctx, pumpID, from, to)
}

func (r *FlowRecorder) Average(ctx context.Context, pumpID int64) (float64, error) {
	return r.flows.AverageByPump(ctx, pumpID)
}

func (r *FlowRecorder) TotalBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}
	return r.flows.SumByPumpBetween(ctx, pumpID, from, to)
}

func (r *FlowRecorder) Delete(ctx context.Context, id int64) error {
	log.Info().Int64("flow_id", id).Msg("deleting flow measurement")
	return r.flows.Delete(ctx, id)
}
