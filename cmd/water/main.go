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

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/database"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/gateway"
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

	cfg, err := config.Water()
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
		if err := database.Migrate(db, database.WaterSchema); err != nil {
			log.Fatal().Err(err).Msg("db migrate failed")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	repos := repository.NewWater(db)
	svc := service.NewWater(repos.Flows, repos.Reservoirs, gateway.New(cfg, m), m)

	sub := messaging.Subscription{
		Topic:   events.SharedSubscription(cfg.EventQueue, cfg.EventTopic),
		Handler: svc.Listener.Handle,
	}
	client, err := messaging.Connect(config.MQTTBroker(), config.MQTTClientID("water"), sub)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer client.Disconnect(250)

	app := httpHandlers.NewApp("water", reg)
	httpHandlers.RegisterWater(app, svc)

	go func() {
		<-ctx.Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.Addr).
		Str("energy_service", cfg.EnergyServiceURL).
		Str("gateway_mode", cfg.GatewayMode).
		Str("subscription", sub.Topic).
		Msg("water api listening")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server exit")
	}
}
