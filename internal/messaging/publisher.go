package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
)

type publishClient interface {
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher hands JSON messages to the client without waiting for the
// broker's acknowledgement. Delivery failures are logged once known.
type Publisher struct {
	client publishClient
	topic  string
}

func NewPublisher(client publishClient, topic string) *Publisher {
	return &Publisher{client: client, topic: topic}
}

func (p *Publisher) Topic() string { return p.topic }

func (p *Publisher) PublishJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", p.topic, err)
	}
	if !p.client.IsConnected() {
		return fmt.Errorf("publish to %s: %w", p.topic, ErrNotConnected)
	}
	token := p.client.Publish(p.topic, QoS, false, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			log.Error().Err(err).Str("topic", p.topic).Msg("mqtt publish failed")
		}
	}()
	return nil
}

// Publish sends an over-consumption event.
func (p *Publisher) Publish(_ context.Context, ev events.OverConsumptionEvent) error {
	if err := p.PublishJSON(ev); err != nil {
		return err
	}
	log.Info().Str("event_id", ev.EventID).Str("topic", p.topic).Msg("over-consumption event published")
	return nil
}
