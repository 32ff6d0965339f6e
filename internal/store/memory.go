package store

import (
	"fmt"
	"sync"

	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/table"
)

// Memory is an in-process Store. All reads return copies so callers can
// mutate freely before writing back.
type Memory struct {
	mu          sync.RWMutex
	tables      map[string]*table.Table
	seats       map[string]*table.Seat
	seatsByTbl  map[string][]string
	hands       map[string]*engine.Hand
	latestHand  map[string]string
	actions     map[string][]*engine.ActionRecord
	actionCount int
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		tables:     make(map[string]*table.Table),
		seats:      make(map[string]*table.Seat),
		seatsByTbl: make(map[string][]string),
		hands:      make(map[string]*engine.Hand),
		latestHand: make(map[string]string),
		actions:    make(map[string][]*engine.ActionRecord),
	}
}

func (m *Memory) CreateTable(t *table.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[t.ID]; ok {
		return fmt.Errorf("table %s: %w", t.ID, ErrExists)
	}
	cp := *t
	m.tables[t.ID] = &cp
	return nil
}

func (m *Memory) UpdateTable(t *table.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[t.ID]; !ok {
		return fmt.Errorf("table %s: %w", t.ID, ErrNotFound)
	}
	cp := *t
	m.tables[t.ID] = &cp
	return nil
}

func (m *Memory) GetTable(id string) (*table.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", id, ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (m *Memory) ListTables() ([]*table.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tables := make([]*table.Table, 0, len(m.tables))
	for _, t := range m.tables {
		cp := *t
		tables = append(tables, &cp)
	}
	return tables, nil
}

func (m *Memory) CreateSeat(s *table.Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seats[s.ID]; ok {
		return fmt.Errorf("seat %s: %w", s.ID, ErrExists)
	}
	cp := *s
	m.seats[s.ID] = &cp
	m.seatsByTbl[s.TableID] = append(m.seatsByTbl[s.TableID], s.ID)
	return nil
}

func (m *Memory) UpdateSeat(s *table.Seat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seats[s.ID]; !ok {
		return fmt.Errorf("seat %s: %w", s.ID, ErrNotFound)
	}
	cp := *s
	m.seats[s.ID] = &cp
	return nil
}

func (m *Memory) GetSeat(id string) (*table.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.seats[id]
	if !ok {
		return nil, fmt.Errorf("seat %s: %w", id, ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) SeatsForTable(tableID string) ([]*table.Seat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.seatsByTbl[tableID]
	seats := make([]*table.Seat, 0, len(ids))
	for _, id := range ids {
		cp := *m.seats[id]
		seats = append(seats, &cp)
	}
	return seats, nil
}

func (m *Memory) CreateHand(h *engine.Hand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hands[h.ID]; ok {
		return fmt.Errorf("hand %s: %w", h.ID, ErrExists)
	}
	m.hands[h.ID] = h.Clone()
	m.latestHand[h.TableID] = h.ID
	return nil
}

func (m *Memory) UpdateHand(h *engine.Hand) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.hands[h.ID]
	if !ok {
		return fmt.Errorf("hand %s: %w", h.ID, ErrNotFound)
	}
	if stored.Version != h.Version {
		return fmt.Errorf("hand %s at version %d, submitted %d: %w",
			h.ID, stored.Version, h.Version, ErrVersionConflict)
	}
	h.Version++
	m.hands[h.ID] = h.Clone()
	return nil
}

func (m *Memory) GetHand(id string) (*engine.Hand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hands[id]
	if !ok {
		return nil, fmt.Errorf("hand %s: %w", id, ErrNotFound)
	}
	return h.Clone(), nil
}

func (m *Memory) LatestHand(tableID string) (*engine.Hand, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.latestHand[tableID]
	if !ok {
		return nil, fmt.Errorf("no hands for table %s: %w", tableID, ErrNotFound)
	}
	return m.hands[id].Clone(), nil
}

func (m *Memory) AppendAction(rec *engine.ActionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *rec
	m.actions[rec.HandID] = append(m.actions[rec.HandID], &cp)
	m.actionCount++
	return nil
}

func (m *Memory) ActionsForHand(handID string) ([]*engine.ActionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := make([]*engine.ActionRecord, 0, len(m.actions[handID]))
	for _, rec := range m.actions[handID] {
		cp := *rec
		recs = append(recs, &cp)
	}
	return recs, nil
}
