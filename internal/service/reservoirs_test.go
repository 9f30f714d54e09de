package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service/servicetest"
)

func TestReservoirCreateValidation(t *testing.T) {
	svc := service.NewReservoirs(servicetest.NewReservoirs())
	ctx := context.Background()

	r, err := svc.Create(ctx, domain.Reservoir{Name: "North", TotalCapacity: 1000, CurrentVolume: 500, Location: "field-a"})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)

	_, err = svc.Create(ctx, domain.Reservoir{Name: "Over", TotalCapacity: 100, CurrentVolume: 150})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, domain.Reservoir{Name: "Empty", TotalCapacity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReservoirUpdateVolume(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewReservoirs(domain.Reservoir{Name: "North", TotalCapacity: 1000, CurrentVolume: 500})
	svc := service.NewReservoirs(store)

	_, err := svc.UpdateVolume(ctx, 1, 1200)
	assert.ErrorIs(t, err, domain.ErrValidation)
	r, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 500.0, r.CurrentVolume)

	_, err = svc.UpdateVolume(ctx, 1, -1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	r, err = svc.UpdateVolume(ctx, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, r.CurrentVolume)

	_, err = svc.UpdateVolume(ctx, 5, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservoirUpdateVolumeRejectsNaN(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewReservoirs(domain.Reservoir{Name: "North", TotalCapacity: 1000, CurrentVolume: 500})
	svc := service.NewReservoirs(store)

	_, err := svc.UpdateVolume(ctx, 1, math.NaN())
	assert.ErrorIs(t, err, domain.ErrValidation)
	r, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 500.0, r.CurrentVolume)
}

func TestReservoirVolumeMovesInAndOutOfAlert(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewReservoirs(domain.Reservoir{Name: "North", TotalCapacity: 1000, CurrentVolume: 500})
	svc := service.NewReservoirs(store)

	alerts, err := svc.ListInAlert(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)

	_, err = svc.UpdateVolume(ctx, 1, 150)
	require.NoError(t, err)
	alerts, err = svc.ListInAlert(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, int64(1), alerts[0].ID)
	assert.Equal(t, 150.0, alerts[0].CurrentVolume)

	// exactly 20% is out of alert
	_, err = svc.UpdateVolume(ctx, 1, 200)
	require.NoError(t, err)
	alerts, err = svc.ListInAlert(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestReservoirAlertsAndFillLevel(t *testing.T) {
	ctx := context.Background()
	store := servicetest.NewReservoirs(
		domain.Reservoir{Name: "Low", TotalCapacity: 1000, CurrentVolume: 150, Location: "east"},
		domain.Reservoir{Name: "Edge", TotalCapacity: 1000, CurrentVolume: 200, Location: "east"},
		domain.Reservoir{Name: "Full", TotalCapacity: 1000, CurrentVolume: 900, Location: "west"},
	)
	svc := service.NewReservoirs(store)

	alerts, err := svc.ListInAlert(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Low", alerts[0].Name)

	east, err := svc.ListByLocation(ctx, "east")
	require.NoError(t, err)
	assert.Len(t, east, 2)

	lvl, err := svc.FillLevel(ctx, 3)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, lvl, 1e-9)

	require.NoError(t, svc.Delete(ctx, 3))
	_, err = svc.FillLevel(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
