package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/cloud"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/database"
	httpHandlers "github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/http"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/messaging"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/repository"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
)

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
	if config.Migrate() {
		if err := database.Migrate(db, database.EnergySchema); err != nil {
			log.Fatal().Err(err).Msg("db migrate failed")
		}
	}

	client, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID("energy"))
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	notifiers := service.Notifiers{messaging.NewPublisher(client, cfg.EventTopic)}
	if cfg.SNSEnabled {
		sns, err := cloud.NewSNSClient(ctx, cfg.AWSRegion, cfg.SNSTopic)
		if err != nil {
			log.Warn().Err(err).Msg("sns alerts disabled")
		} else {
			notifiers = append(notifiers, sns)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	repos := repository.NewEnergy(db)
	svc := service.NewEnergy(repos.Pumps, repos.Consumptions, notifiers, cfg.Threshold, metrics.New(reg))

	app := httpHandlers.NewApp("energy", reg)
	httpHandlers.RegisterEnergy(app, svc)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Float64("threshold", cfg.Threshold).Str("topic", cfg.EventTopic).Msg("energy api listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
