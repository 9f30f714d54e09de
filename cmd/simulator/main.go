package main

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/messaging"
)

// reading draws an energy value around the threshold; roughly one in five
// readings exceeds it.
func reading(cfg config.SimulatorConfig, now time.Time) events.ConsumptionMessage {
	energy := cfg.Threshold * (0.4 + rand.Float64()*0.75)
	return events.ConsumptionMessage{
		PumpID:        cfg.PumpID,
		EnergyUsedKWh: energy,
		DurationHours: 0.5 + rand.Float64()*1.5,
		MeasuredAt:    now.UTC(),
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	cfg := config.Simulator()

	client, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID("simulator"))
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	pub := messaging.NewPublisher(client, config.ReadingsTopic())
	for i := 0; i < cfg.Count; i++ {
		r := reading(cfg, time.Now())
		if err := pub.PublishJSON(r); err != nil {
			log.Error().Err(err).Msg("publish reading")
		}
		log.Debug().Int64("pump_id", r.PumpID).Float64("energy_used", r.EnergyUsedKWh).Msg("reading sent")
		time.Sleep(cfg.Interval)
	}
	log.Info().Int("readings", cfg.Count).Str("topic", pub.Topic()).Msg("simulation done")
}
