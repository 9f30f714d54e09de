package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/metrics"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service/servicetest"
)

func TestFlowRecordWhenAvailable(t *testing.T) {
	flows := servicetest.NewFlows()
	rec := service.NewFlowRecorder(flows, &servicetest.Checker{OK: true}, nil)

	f, err := rec.Record(context.Background(), 1, 12.5, "", time.Time{})
	require.NoError(t, err)
	assert.NotZero(t, f.ID)
	assert.Equal(t, service.DefaultFlowUnit, f.Unit)
	assert.False(t, f.MeasuredAt.IsZero())
	assert.Equal(t, 1, flows.Len())
}

func TestFlowRecordRejected(t *testing.T) {
	tests := []struct {
		name    string
		checker *servicetest.Checker
		is      error
		reason  string
	}{
		{"pump unavailable", &servicetest.Checker{OK: false}, domain.ErrPumpUnavailable, "unavailable"},
		{"energy service down", &servicetest.Checker{Err: domain.ErrRemoteUnavailable}, domain.ErrRemoteUnavailable, "error"},
		{"unknown pump", &servicetest.Checker{Err: domain.ErrNotFound}, domain.ErrNotFound, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			flows := servicetest.NewFlows()
			rec := service.NewFlowRecorder(flows, tt.checker, metrics.New(reg))

			_, err := rec.Record(context.Background(), 1, 10, "L/min", time.Time{})
			assert.ErrorIs(t, err, tt.is)
			assert.Zero(t, flows.Len())
			assert.Equal(t, 1, tt.checker.Calls)
			assert.Equal(t, 1, testutil.CollectAndCount(reg, "irrigation_flow_readings_rejected_total"))
		})
	}
}

func TestFlowCheckEnergy(t *testing.T) {
	rec := service.NewFlowRecorder(servicetest.NewFlows(), &servicetest.Checker{Err: errors.New("boom")}, nil)
	ok, err := rec.CheckEnergy(context.Background(), 3)
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFlowQueries(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	flows := servicetest.NewFlows(
		domain.FlowReading{PumpID: 1, Flow: 10, Unit: "m3/h", MeasuredAt: day},
		domain.FlowReading{PumpID: 1, Flow: 20, Unit: "m3/h", MeasuredAt: day.Add(2 * time.Hour)},
		domain.FlowReading{PumpID: 2, Flow: 5, Unit: "m3/h", MeasuredAt: day.Add(time.Hour)},
	)
	rec := service.NewFlowRecorder(flows, &servicetest.Checker{OK: true}, nil)

	avg, err := rec.Average(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 15.0, avg)

	avg, err = rec.Average(ctx, 9)
	require.NoError(t, err)
	assert.Zero(t, avg)

	total, err := rec.TotalBetween(ctx, 1, day, day.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 10.0, total)

	all, err := rec.ListBetween(ctx, nil, day, day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pump := int64(2)
	one, err := rec.ListBetween(ctx, &pump, day, day.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Len(t, one, 1)

	_, err = rec.ListBetween(ctx, nil, day.Add(time.Hour), day)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, rec.Delete(ctx, 1))
	_, err = rec.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
