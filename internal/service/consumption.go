package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
)

// ConsumptionRecorder persists energy readings and evaluates each one against
// the over-consumption threshold.
type ConsumptionRecorder struct {
	pumps        PumpStore
	consumptions ConsumptionStore
	notifier     Notifier
	threshold    float64
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewConsumptionRecorder(pumps PumpStore, consumptions ConsumptionStore, notifier Notifier, threshold float64, m *metrics.Metrics) *ConsumptionRecorder {
	return &ConsumptionRecorder{
		pumps:        pumps,
		consumptions: consumptions,
		notifier:     notifier,
		threshold:    threshold,
		metrics:      m,
		now:          time.Now,
	}
}

func (r *ConsumptionRecorder) Threshold() float64 { return r.threshold }

// Record resolves the pump, stores the reading and then checks the threshold.
// A failed notification is logged; it never undoes the stored reading.
func (r *ConsumptionRecorder) Record(ctx context.Context, pumpID int64, energyUsed, duration float64, measuredAt time.Time) (domain.ConsumptionReading, error) {
	log.Info().Int64("pump_id", pumpID).Float64("energy_used", energyUsed).Msg("recording consumption")
	pump, err := r.pumps.Get(ctx, pumpID)
	if err != nil {
		return domain.ConsumptionReading{}, err
	}
	if measuredAt.IsZero() {
		measuredAt = r.now().UTC()
	}
	c := domain.ConsumptionReading{
		PumpID:        pump.ID,
		EnergyUsedKWh: energyUsed,
		DurationHours: duration,
		MeasuredAt:    measuredAt,
	}
	if err := r.consumptions.Insert(ctx, &c); err != nil {
		return domain.ConsumptionReading{}, err
	}
	c.Pump = &pump

	r.checkThreshold(ctx, pump, c)
	return c, nil
}

func (r *ConsumptionRecorder) checkThreshold(ctx context.Context, pump domain.Pump, c domain.ConsumptionReading) {
	if c.EnergyUsedKWh <= r.threshold {
		return
	}
	log.Warn().
		Str("reference", pump.Reference).
		Float64("energy_used", c.EnergyUsedKWh).
		Float64("threshold", r.threshold).
		Msg("over-consumption detected")

	if r.notifier == nil {
		return
	}
	ev := events.NewOverConsumption(pump, c.EnergyUsedKWh, r.threshold, r.now().UTC())
	if err := r.notifier.Publish(ctx, ev); err != nil {
		r.metrics.EventFailed()
		log.Error().Err(err).Str("event_id", ev.EventID).Int64("pump_id", pump.ID).Msg("over-consumption event not published")
		return
	}
	r.metrics.EventPublished()
}

// FromMQTT records a reading received on the readings topic.
func (r *ConsumptionRecorder) FromMQTT(ctx context.Context, topic string, payload []byte) error {
	var m events.ConsumptionMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return fmt.Errorf("decode reading from %s: %w", topic, err)
	}
	if m.PumpID == 0 {
		return fmt.Errorf("%w: reading from %s has no pump_id", domain.ErrValidation, topic)
	}
	_, err := r.Record(ctx, m.PumpID, m.EnergyUsedKWh, m.DurationHours, m.MeasuredAt)
	return err
}

func (r *ConsumptionRecorder) List(ctx context.Context) ([]domain.ConsumptionReading, error) {
	return r.consumptions.List(ctx)
}

func (r *ConsumptionRecorder) ListByPump(ctx context.Context, pumpID int64) ([]domain.ConsumptionReading, error) {
	return r.consumptions.ListByPump(ctx, pumpID)
}

func (r *ConsumptionRecorder) ListByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) ([]domain.ConsumptionReading, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return r.consumptions.ListByPumpBetween(ctx, pumpID, from, to)
}

func (r *ConsumptionRecorder) TotalByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}
	return r.consumptions.SumByPumpBetween(ctx, pumpID, from, to)
}

func (r *ConsumptionRecorder) Total(ctx context.Context) (float64, error) {
	return r.consumptions.SumAll(ctx)
}

// ListAbove returns readings strictly above threshold, regardless of the
// configured one.
func (r *ConsumptionRecorder) ListAbove(ctx context.Context, threshold float64) ([]domain.ConsumptionReading, error) {
	return r.consumptions.ListAbove(ctx, threshold)
}

var errEmptyRange = errors.New("range start is after its end")

func checkRange(from, to time.Time) error {
	if from.After(to) {
		return fmt.Errorf("%w: %w", domain.ErrValidation, errEmptyRange)
	}
	return nil
}

// Notifiers fans an event out to every notifier and joins their errors.
type Notifiers []Notifier

func (ns Notifiers) Publish(ctx context.Context, ev events.OverConsumptionEvent) error {
	var errs []error
	for _, n := range ns {
		if err := n.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
