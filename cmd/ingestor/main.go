package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/database"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/messaging"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
)

// deferredNotifier lets the recorder be built before the MQTT client that
// carries both the readings subscription and the event publisher exists.
type deferredNotifier struct{ pub atomic.Pointer[messaging.Publisher] }

func (d *deferredNotifier) Publish(ctx context.Context, ev events.OverConsumptionEvent) error {
	p := d.pub.Load()
	if p == nil {
		return messaging.ErrNotConnected
	}
	return p.Publish(ctx, ev)
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	cfg, err := config.Energy()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}
	defer db.Close()

	notifier := &deferredNotifier{}
	repos := repository.NewEnergy(db)
	recorder := service.NewConsumptionRecorder(repos.Pumps, repos.Consumptions, notifier, cfg.Threshold, nil)

	sub := messaging.Subscription{
		Topic:   events.SharedSubscription("ingestor", config.ReadingsTopic()),
		Handler: recorder.FromMQTT,
	}
	client, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID("ingestor"), sub)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)
	notifier.pub.Store(messaging.NewPublisher(client, cfg.EventTopic))

	log.Info().Str("topic", sub.Topic).Msg("ingestor running; Ctrl+C to stop")
	<-ctx.Done()
}
