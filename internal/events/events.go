// Package events holds the messages exchanged between the energy and water
// services over the event bus.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
)

// OverConsumptionEvent is published once per consumption reading whose energy
// exceeds the configured threshold. It is never persisted.
type OverConsumptionEvent struct {
	EventID       string    `json:"event_id"`
	PumpID        int64     `json:"pump_id"`
	PumpReference string    `json:"pump_reference"`
	EnergyUsedKWh float64   `json:"energy_used"`
	ThresholdKWh  float64   `json:"threshold"`
	DetectedAt    time.Time `json:"detected_at"`
	Message       string    `json:"message"`
}

func NewOverConsumption(p domain.Pump, energyUsed, threshold float64, at time.Time) OverConsumptionEvent {
	return OverConsumptionEvent{
		EventID:       uuid.NewString(),
		PumpID:        p.ID,
		PumpReference: p.Reference,
		EnergyUsedKWh: energyUsed,
		ThresholdKWh:  threshold,
		DetectedAt:    at,
		Message:       fmt.Sprintf("Over-consumption detected: %.2f kWh (threshold: %.2f kWh)", energyUsed, threshold),
	}
}

// ConsumptionMessage is the payload of a reading published on the readings topic.
type ConsumptionMessage struct {
	PumpID        int64     `json:"pump_id"`
	EnergyUsedKWh float64   `json:"energy_used"`
	DurationHours float64   `json:"duration"`
	MeasuredAt    time.Time `json:"measured_at"`
}

// Topic maps an exchange and routing key onto an MQTT topic.
func Topic(exchange, routingKey string) string {
	return exchange + "/" + routingKey
}

// SharedSubscription binds a named queue to a topic. Subscribers using the
// same queue name share one delivery stream.
func SharedSubscription(queue, topic string) string {
	if queue == "" {
		return topic
	}
	return "$share/" + queue + "/" + topic
}
