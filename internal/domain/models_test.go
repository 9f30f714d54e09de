package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePumpStatus(t *testing.T) {
	st, err := ParsePumpStatus("active")
	require.NoError(t, err)
	assert.Equal(t, PumpActive, st)

	st, err = ParsePumpStatus(" MAINTENANCE ")
	require.NoError(t, err)
	assert.Equal(t, PumpMaintenance, st)

	_, err = ParsePumpStatus("BROKEN")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPumpStatusAvailable(t *testing.T) {
	assert.True(t, PumpActive.Available())
	assert.False(t, PumpInactive.Available())
	assert.False(t, PumpMaintenance.Available())
}

func TestPumpValidate(t *testing.T) {
	ok := Pump{Reference: "P1", PowerKW: 5, Status: PumpActive}
	require.NoError(t, ok.Validate())

	cases := map[string]Pump{
		"empty reference": {Reference: " ", PowerKW: 5, Status: PumpActive},
		"zero power":      {Reference: "P1", PowerKW: 0, Status: PumpActive},
		"negative power":  {Reference: "P1", PowerKW: -1, Status: PumpActive},
		"bad status":      {Reference: "P1", PowerKW: 1, Status: "ON"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, p.Validate(), ErrValidation)
		})
	}
}

func TestReservoirInvariants(t *testing.T) {
	r := Reservoir{Name: "north", TotalCapacity: 1000, CurrentVolume: 1000}
	require.NoError(t, r.Validate())
	assert.False(t, r.InAlert())
	assert.InDelta(t, 100.0, r.FillLevel(), 1e-9)

	r.CurrentVolume = 1000.5
	assert.ErrorIs(t, r.Validate(), ErrValidation)

	r.CurrentVolume = 200
	assert.False(t, r.InAlert(), "exactly 20% is not in alert")

	r.CurrentVolume = 199.99
	assert.True(t, r.InAlert())

	assert.ErrorIs(t, Reservoir{Name: "x", TotalCapacity: 0}.Validate(), ErrValidation)
	assert.ErrorIs(t, Reservoir{Name: "x", TotalCapacity: 10, CurrentVolume: -1}.Validate(), ErrValidation)
	assert.ErrorIs(t, Reservoir{TotalCapacity: 10}.Validate(), ErrValidation)
}
