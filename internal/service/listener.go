package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
)

// OverConsumptionListener is the water service's subscriber for
// over-consumption events. It only reads, so redeliveries are harmless.
type OverConsumptionListener struct {
	flows FlowStore
}

func NewOverConsumptionListener(flows FlowStore) *OverConsumptionListener {
	return &OverConsumptionListener{flows: flows}
}

func (l *OverConsumptionListener) Handle(ctx context.Context, topic string, payload []byte) error {
	var ev events.OverConsumptionEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode over-consumption event from %s: %w", topic, err)
	}
	log.Warn().
		Str("event_id", ev.EventID).
		Int64("pump_id", ev.PumpID).
		Str("reference", ev.PumpReference).
		Float64("energy_used", ev.EnergyUsedKWh).
		Float64("threshold", ev.ThresholdKWh).
		Time("detected_at", ev.DetectedAt).
		Str("message", ev.Message).
		Msg("over-consumption event received")

	n, err := l.flows.CountByPump(ctx, ev.PumpID)
	if err != nil {
		log.Error().Err(err).Int64("pump_id", ev.PumpID).Msg("could not count flow measurements")
		return nil
	}
	if n > 0 {
		log.Info().Int64("pump_id", ev.PumpID).Int("flow_measurements", n).Msg("pump has recorded flow measurements")
	}
	return nil
}
