package gateway

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
)

// FallbackChecker wraps a checker with a circuit breaker. When the energy
// service cannot be reached, or the breaker is open, the pump is assumed
// available so irrigation is not halted by an outage. Explicit answers, and
// errors that are not transport faults, pass through unchanged. It records
// the check outcome itself, so the wrapped checker should carry no metrics.
type FallbackChecker struct {
	next    service.AvailabilityChecker
	cb      *gobreaker.CircuitBreaker[bool]
	metrics *metrics.Metrics
}

func NewFallbackChecker(next service.AvailabilityChecker, cfg config.BreakerConfig, m *metrics.Metrics) *FallbackChecker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	cb := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:        "energy-availability",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		// only transport faults count against the remote
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrRemoteUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return &FallbackChecker{next: next, cb: cb, metrics: m}
}

func (f *FallbackChecker) Available(ctx context.Context, pumpID int64) (bool, error) {
	ok, err := f.cb.Execute(func() (bool, error) {
		return f.next.Available(ctx, pumpID)
	})
	switch {
	case err == nil && ok:
		f.metrics.AvailabilityCheck(metrics.OutcomeAvailable)
		return true, nil
	case err == nil:
		f.metrics.AvailabilityCheck(metrics.OutcomeUnavailable)
		return false, nil
	case isTransportFault(err):
		f.metrics.AvailabilityCheck(metrics.OutcomeFallback)
		log.Error().Err(err).Int64("pump_id", pumpID).Msg("energy service unreachable, assuming pump available")
		return true, nil
	}
	f.metrics.AvailabilityCheck(metrics.OutcomeError)
	return false, err
}

func isTransportFault(err error) bool {
	return errors.Is(err, domain.ErrRemoteUnavailable) ||
		errors.Is(err, gobreaker.ErrOpenState) ||
		errors.Is(err, gobreaker.ErrTooManyRequests)
}

// New builds the checker selected by cfg.GatewayMode.
func New(cfg config.WaterConfig, m *metrics.Metrics) service.AvailabilityChecker {
	if cfg.GatewayMode == config.GatewayDirect {
		return NewHTTPChecker(cfg.EnergyServiceURL, cfg.GatewayTimeout, m)
	}
	return NewFallbackChecker(NewHTTPChecker(cfg.EnergyServiceURL, cfg.GatewayTimeout, nil), cfg.Breaker, m)
}
