// Package servicetest provides in-memory record stores, a recording notifier
// and a stub availability checker for tests of the services and handlers.
package servicetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-irrigation-management-system/internal/events"
)

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", domain.ErrNotFound, what, id)
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

type Pumps struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Pump
}

func NewPumps(seed ...domain.Pump) *Pumps {
	s := &Pumps{rows: map[int64]domain.Pump{}}
	for _, p := range seed {
		_ = s.Create(context.Background(), &p)
	}
	return s
}

func (s *Pumps) Create(_ context.Context, p *domain.Pump) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.rows {
		if o.Reference == p.Reference {
			return fmt.Errorf("%w: pump %s already exists", domain.ErrValidation, p.Reference)
		}
	}
	s.nextID++
	p.ID = s.nextID
	s.rows[p.ID] = *p
	return nil
}

func (s *Pumps) Update(_ context.Context, p *domain.Pump) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.ID]; !ok {
		return notFound("pump", p.ID)
	}
	s.rows[p.ID] = *p
	return nil
}

func (s *Pumps) UpdateStatus(_ context.Context, id int64, status domain.PumpStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return notFound("pump", id)
	}
	p.Status = status
	s.rows[id] = p
	return nil
}

func (s *Pumps) Get(_ context.Context, id int64) (domain.Pump, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[id]
	if !ok {
		return domain.Pump{}, notFound("pump", id)
	}
	return p, nil
}

func (s *Pumps) GetByReference(_ context.Context, ref string) (domain.Pump, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.rows {
		if p.Reference == ref {
			return p, nil
		}
	}
	return domain.Pump{}, fmt.Errorf("%w: pump %s", domain.ErrNotFound, ref)
}

func (s *Pumps) List(ctx context.Context) ([]domain.Pump, error) {
	return s.filter(func(domain.Pump) bool { return true }), nil
}

func (s *Pumps) ListByStatus(_ context.Context, status domain.PumpStatus) ([]domain.Pump, error) {
	return s.filter(func(p domain.Pump) bool { return p.Status == status }), nil
}

func (s *Pumps) filter(keep func(domain.Pump) bool) []domain.Pump {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Pump{}
	for _, p := range s.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Pumps) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return notFound("pump", id)
	}
	delete(s.rows, id)
	return nil
}

type Consumptions struct {
	mu   sync.Mutex
	rows []domain.ConsumptionReading
	// InsertErr, when set, fails every insert.
	InsertErr error
}

func NewConsumptions() *Consumptions { return &Consumptions{} }

func (s *Consumptions) Insert(_ context.Context, c *domain.ConsumptionReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.InsertErr != nil {
		return s.InsertErr
	}
	c.ID = int64(len(s.rows) + 1)
	row := *c
	row.Pump = nil
	s.rows = append(s.rows, row)
	return nil
}

func (s *Consumptions) filter(keep func(domain.ConsumptionReading) bool) []domain.ConsumptionReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ConsumptionReading{}
	for _, c := range s.rows {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Consumptions) List(context.Context) ([]domain.ConsumptionReading, error) {
	return s.filter(func(domain.ConsumptionReading) bool { return true }), nil
}

func (s *Consumptions) ListByPump(_ context.Context, pumpID int64) ([]domain.ConsumptionReading, error) {
	return s.filter(func(c domain.ConsumptionReading) bool { return c.PumpID == pumpID }), nil
}

func (s *Consumptions) ListByPumpBetween(_ context.Context, pumpID int64, from, to time.Time) ([]domain.ConsumptionReading, error) {
	return s.filter(func(c domain.ConsumptionReading) bool {
		return c.PumpID == pumpID && inRange(c.MeasuredAt, from, to)
	}), nil
}

func (s *Consumptions) SumByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error) {
	rows, _ := s.ListByPumpBetween(ctx, pumpID, from, to)
	var total float64
	for _, c := range rows {
		total += c.EnergyUsedKWh
	}
	return total, nil
}

func (s *Consumptions) SumAll(ctx context.Context) (float64, error) {
	rows, _ := s.List(ctx)
	var total float64
	for _, c := range rows {
		total += c.EnergyUsedKWh
	}
	return total, nil
}

func (s *Consumptions) ListAbove(_ context.Context, threshold float64) ([]domain.ConsumptionReading, error) {
	return s.filter(func(c domain.ConsumptionReading) bool { return c.EnergyUsedKWh > threshold }), nil
}

type Flows struct {
	mu     sync.Mutex
	nextID int64
	rows   []domain.FlowReading
}

func NewFlows(seed ...domain.FlowReading) *Flows {
	s := &Flows{}
	for _, f := range seed {
		_ = s.Insert(context.Background(), &f)
	}
	return s
}

func (s *Flows) Insert(_ context.Context, f *domain.FlowReading) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	s.rows = append(s.rows, *f)
	return nil
}

// Len is the number of stored readings.
func (s *Flows) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func (s *Flows) filter(keep func(domain.FlowReading) bool) []domain.FlowReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.FlowReading{}
	for _, f := range s.rows {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func (s *Flows) Get(_ context.Context, id int64) (domain.FlowReading, error) {
	if rows := s.filter(func(f domain.FlowReading) bool { return f.ID == id }); len(rows) == 1 {
		return rows[0], nil
	}
	return domain.FlowReading{}, notFound("flow reading", id)
}

func (s *Flows) List(context.Context) ([]domain.FlowReading, error) {
	return s.filter(func(domain.FlowReading) bool { return true }), nil
}

func (s *Flows) ListByPump(_ context.Context, pumpID int64) ([]domain.FlowReading, error) {
	return s.filter(func(f domain.FlowReading) bool { return f.PumpID == pumpID }), nil
}

func (s *Flows) ListBetween(_ context.Context, pumpID *int64, from, to time.Time) ([]domain.FlowReading, error) {
	return s.filter(func(f domain.FlowReading) bool {
		return (pumpID == nil || f.PumpID == *pumpID) && inRange(f.MeasuredAt, from, to)
	}), nil
}

func (s *Flows) AverageByPump(ctx context.Context, pumpID int64) (float64, error) {
	rows, _ := s.ListByPump(ctx, pumpID)
	if len(rows) == 0 {
		return 0, nil
	}
	var total float64
	for _, f := range rows {
		total += f.Flow
	}
	return total / float64(len(rows)), nil
}

func (s *Flows) SumByPumpBetween(ctx context.Context, pumpID int64, from, to time.Time) (float64, error) {
	rows, _ := s.ListBetween(ctx, &pumpID, from, to)
	var total float64
	for _, f := range rows {
		total += f.Flow
	}
	return total, nil
}

func (s *Flows) CountByPump(ctx context.Context, pumpID int64) (int, error) {
	rows, _ := s.ListByPump(ctx, pumpID)
	return len(rows), nil
}

func (s *Flows) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.rows {
		if f.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return notFound("flow reading", id)
}

type Reservoirs struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Reservoir
}

func NewReservoirs(seed ...domain.Reservoir) *Reservoirs {
	s := &Reservoirs{rows: map[int64]domain.Reservoir{}}
	for _, r := range seed {
		_ = s.Create(context.Background(), &r)
	}
	return s
}

func (s *Reservoirs) Create(_ context.Context, r *domain.Reservoir) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	s.rows[r.ID] = *r
	return nil
}

func (s *Reservoirs) Update(_ context.Context, r *domain.Reservoir) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.ID]; !ok {
		return notFound("reservoir", r.ID)
	}
	s.rows[r.ID] = *r
	return nil
}

func (s *Reservoirs) UpdateVolume(_ context.Context, id int64, volume float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return notFound("reservoir", id)
	}
	r.CurrentVolume = volume
	s.rows[id] = r
	return nil
}

func (s *Reservoirs) Get(_ context.Context, id int64) (domain.Reservoir, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return domain.Reservoir{}, notFound("reservoir", id)
	}
	return r, nil
}

func (s *Reservoirs) filter(keep func(domain.Reservoir) bool) []domain.Reservoir {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Reservoir{}
	for _, r := range s.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Reservoirs) List(context.Context) ([]domain.Reservoir, error) {
	return s.filter(func(domain.Reservoir) bool { return true }), nil
}

func (s *Reservoirs) ListInAlert(context.Context) ([]domain.Reservoir, error) {
	return s.filter(domain.Reservoir.InAlert), nil
}

func (s *Reservoirs) ListByLocation(_ context.Context, location string) ([]domain.Reservoir, error) {
	return s.filter(func(r domain.Reservoir) bool { return r.Location == location }), nil
}

func (s *Reservoirs) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return notFound("reservoir", id)
	}
	delete(s.rows, id)
	return nil
}

// Notifier records published events and optionally fails.
type Notifier struct {
	mu     sync.Mutex
	events []events.OverConsumptionEvent
	Err    error
}

func (n *Notifier) Publish(_ context.Context, ev events.OverConsumptionEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return n.Err
}

func (n *Notifier) Events() []events.OverConsumptionEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]events.OverConsumptionEvent(nil), n.events...)
}

// Checker is a fixed availability answer.
type Checker struct {
	OK    bool
	Err   error
	Calls int
}

func (c *Checker) Available(context.Context, int64) (bool, error) {
	c.Calls++
	return c.OK, c.Err
}
