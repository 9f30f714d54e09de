package domain

import (
	"fmt"
	"strings"
	"time"
)

// PumpStatus is the operating status of a pump.
type PumpStatus string

const (
	PumpActive      PumpStatus = "ACTIVE"
	PumpInactive    PumpStatus = "INACTIVE"
	PumpMaintenance PumpStatus = "MAINTENANCE"
)

// ParsePumpStatus accepts the status names case-insensitively.
func ParsePumpStatus(s string) (PumpStatus, error) {
	switch st := PumpStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PumpActive, PumpInactive, PumpMaintenance:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown pump status %q", ErrValidation, s)
}

// Available reports whether a pump in this status may start a new operation.
func (s PumpStatus) Available() bool { return s == PumpActive }

type Pump struct {
	ID             int64      `db:"id" json:"id"`
	Reference      string     `db:"reference" json:"reference"`
	PowerKW        float64    `db:"power_kw" json:"power_kw"`
	Status         PumpStatus `db:"status" json:"status"`
	CommissionedAt time.Time  `db:"commissioned_at" json:"commissioned_at"`
}

// Validate checks the invariants enforced on create and update.
func (p Pump) Validate() error {
	if strings.TrimSpace(p.Reference) == "" {
		return fmt.Errorf("%w: pump reference is required", ErrValidation)
	}
	if p.PowerKW <= 0 {
		return fmt.Errorf("%w: pump power must be greater than 0", ErrValidation)
	}
	if _, err := ParsePumpStatus(string(p.Status)); err != nil {
		return err
	}
	return nil
}

// ConsumptionReading is an energy reading against a pump. Pump is only set
// when the reading was returned from a recording.
type ConsumptionReading struct {
	ID            int64     `db:"id" json:"id"`
	PumpID        int64     `db:"pump_id" json:"pump_id"`
	EnergyUsedKWh float64   `db:"energy_used_kwh" json:"energy_used"`
	DurationHours float64   `db:"duration_hours" json:"duration"`
	MeasuredAt    time.Time `db:"measured_at" json:"measured_at"`
	Pump          *Pump     `db:"-" json:"pump,omitempty"`
}

type FlowReading struct {
	ID         int64     `db:"id" json:"id"`
	PumpID     int64     `db:"pump_id" json:"pump_id"`
	Flow       float64   `db:"flow" json:"flow"`
	Unit       string    `db:"unit" json:"unit"`
	MeasuredAt time.Time `db:"measured_at" json:"measured_at"`
}

// AlertRatio is the fill level below which a reservoir is in alert.
const AlertRatio = 0.2

type Reservoir struct {
	ID            int64   `db:"id" json:"id"`
	Name          string  `db:"name" json:"name"`
	TotalCapacity float64 `db:"total_capacity" json:"total_capacity"`
	CurrentVolume float64 `db:"current_volume" json:"current_volume"`
	Location      string  `db:"location" json:"location"`
}

func (r Reservoir) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: reservoir name is required", ErrValidation)
	}
	if r.TotalCapacity <= 0 {
		return fmt.Errorf("%w: total capacity must be greater than 0", ErrValidation)
	}
	if r.CurrentVolume < 0 {
		return fmt.Errorf("%w: current volume cannot be negative", ErrValidation)
	}
	if r.CurrentVolume > r.TotalCapacity {
		return fmt.Errorf("%w: current volume cannot exceed total capacity", ErrValidation)
	}
	return nil
}

// InAlert reports whether the reservoir is below 20% of its capacity.
func (r Reservoir) InAlert() bool {
	return r.CurrentVolume < r.TotalCapacity*AlertRatio
}

// FillLevel is the current volume as a percentage of capacity.
func (r Reservoir) FillLevel() float64 {
	if r.TotalCapacity <= 0 {
		return 0
	}
	return r.CurrentVolume / r.TotalCapacity * 100
}
