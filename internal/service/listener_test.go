package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/service/servicetest"
)

func TestListenerHandle(t *testing.T) {
	flows := servicetest.NewFlows(domain.FlowReading{PumpID: 4, Flow: 3, Unit: "m3/h", MeasuredAt: time.Now()})
	l := service.NewOverConsumptionListener(flows)

	ev := events.NewOverConsumption(domain.Pump{ID: 4, Reference: "P4"}, 130, 100, time.Now())
	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	assert.NoError(t, l.Handle(context.Background(), "irrigation/overconsumption", payload))
	// redelivery is harmless
	assert.NoError(t, l.Handle(context.Background(), "irrigation/overconsumption", payload))
	assert.Equal(t, 1, flows.Len())
}

func TestListenerRejectsGarbage(t *testing.T) {
	l := service.NewOverConsumptionListener(servicetest.NewFlows())
	assert.Error(t, l.Handle(context.Background(), "irrigation/overconsumption", []byte("{")))
}
