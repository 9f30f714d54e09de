// Package messaging carries events and readings over MQTT.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// QoS 1 gives at-least-once delivery.
const QoS byte = 1

const subscribeTimeout = 10 * time.Second

var ErrNotConnected = errors.New("mqtt client not connected")

// Handler processes one message. A returned error is logged and the message
// is dropped.
type Handler func(ctx context.Context, topic string, payload []byte) error

// Subscription is re-established on every (re)connect.
type Subscription struct {
	Topic   string
	Handler Handler
}

type subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// Connect dials the broker. The client id gets a random suffix so several
// replicas can run with the same configuration.
func Connect(broker, clientID string, subs ...Subscription) (mqtt.Client, error) {
	if clientID == "" {
		clientID = "irrigation"
	}
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID + "-" + uuid.NewString()[:8]).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warn().Err(err).Str("broker", broker).Msg("mqtt connection lost")
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Info().Str("broker", broker).Msg("mqtt connected")
			for _, s := range subs {
				if err := subscribe(c, s); err != nil {
					log.Error().Err(err).Str("topic", s.Topic).Msg("subscribe failed")
				}
			}
		})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", broker, token.Error())
	}
	return client, nil
}

func subscribe(c subscriber, s Subscription) error {
	token := c.Subscribe(s.Topic, QoS, dispatch(s.Handler))
	if !token.WaitTimeout(subscribeTimeout) {
		return fmt.Errorf("subscribe %s: timed out", s.Topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", s.Topic, err)
	}
	log.Info().Str("topic", s.Topic).Msg("subscribed")
	return nil
}

func dispatch(h Handler) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		if err := h(context.Background(), msg.Topic(), msg.Payload()); err != nil {
			log.Error().Err(err).Str("topic", msg.Topic()).Uint16("message_id", msg.MessageID()).Msg("message dropped")
		}
	}
}
