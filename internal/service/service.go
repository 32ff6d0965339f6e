// Package service exposes the engine as a synchronous operation surface:
// create/join tables, start hands, submit actions, and fetch redacted
// state. It owns per-hand write serialization and the action audit log.
package service

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/hearthside/holdem/internal/config"
	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/handid"
	"github.com/hearthside/holdem/internal/store"
	"github.com/hearthside/holdem/internal/table"
)

// ErrNotAuthorized is returned when the authorizer rejects a join
var ErrNotAuthorized = errors.New("not authorized for this table")

// Authorizer decides whether a user may join a table. Membership lives in
// an external system; a nil authorizer allows everyone.
type Authorizer func(userID string, t *table.Table) bool

// Service coordinates the engine, the store, and the audit log
type Service struct {
	store      store.Store
	logger     *log.Logger
	clock      quartz.Clock
	defaults   config.Tables
	authorizer Authorizer

	rngMu sync.Mutex
	rng   *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// Option configures the service
type Option func(*Service)

// WithAuthorizer installs a join authorizer
func WithAuthorizer(a Authorizer) Option {
	return func(s *Service) { s.authorizer = a }
}

// New creates a service
func New(st store.Store, logger *log.Logger, clock quartz.Clock, rng *rand.Rand, defaults config.Tables, opts ...Option) *Service {
	s := &Service{
		store:    st,
		logger:   logger.WithPrefix("service"),
		clock:    clock,
		defaults: defaults,
		rng:      rng,
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock returns the mutex serializing writes for the given key. Concurrency
// discipline is required only at hand (and table) granularity; different
// keys proceed independently.
func (s *Service) lock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	return mu
}

// CreateTable creates an open table. Zero-valued parameters fall back to
// the configured table defaults.
func (s *Service) CreateTable(userID, familyID, name, variant string, smallBlind, startingChips int) (*table.Table, error) {
	if variant == "" {
		variant = s.defaults.Variant
	}
	if smallBlind <= 0 {
		smallBlind = s.defaults.SmallBlind
	}
	if startingChips <= 0 {
		startingChips = s.defaults.StartingStack
	}

	t, err := table.New(handid.New(handid.PrefixTable), familyID, userID, name, variant,
		smallBlind, startingChips, s.defaults.MaxSeats)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateTable(t); err != nil {
		return nil, err
	}

	s.logger.Info("table created", "table", t.ID, "name", name, "small_blind", smallBlind)
	return t, nil
}

// JoinTable seats a user at a table with the table's starting stack
func (s *Service) JoinTable(tableID, userID string) (*table.Seat, error) {
	mu := s.lock("table:" + tableID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.store.GetTable(tableID)
	if err != nil {
		return nil, err
	}
	if s.authorizer != nil && !s.authorizer(userID, t) {
		return nil, ErrNotAuthorized
	}

	seats, err := s.store.SeatsForTable(tableID)
	if err != nil {
		return nil, err
	}

	seat, err := t.Seat(handid.New(handid.PrefixSeat), userID, seats)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateSeat(seat); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTable(t); err != nil {
		return nil, err
	}

	s.logger.Info("user joined table", "table", tableID, "seat", seat.SeatNo, "user", userID)
	return seat, nil
}

// StartHand deals the table's next hand. The dealer rotates from the
// previous hand; blinds are not posted automatically.
func (s *Service) StartHand(tableID string) (*HandView, error) {
	mu := s.lock("table:" + tableID)
	mu.Lock()
	defer mu.Unlock()

	t, err := s.store.GetTable(tableID)
	if err != nil {
		return nil, err
	}
	if t.Status == table.StatusFinished {
		return nil, fmt.Errorf("%w: table is finished", engine.ErrIllegalAction)
	}

	prevDealer := -1
	if prev, err := s.store.LatestHand(tableID); err == nil {
		if prev.Status != engine.StatusComplete {
			return nil, fmt.Errorf("%w: hand %s still in progress", engine.ErrIllegalAction, prev.ID)
		}
		prevDealer = prev.DealerSeat
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	seats, err := s.store.SeatsForTable(tableID)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	h, err := engine.StartHand(handid.New(handid.PrefixHand), s.rng, t, seats, prevDealer,
		engine.WithStartedAt(s.clock.Now()))
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	t.HandCount++
	if err := s.store.CreateHand(h); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTable(t); err != nil {
		return nil, err
	}

	s.logger.Info("hand started", "table", tableID, "hand", h.ID, "no", h.HandNo,
		"dealer", h.DealerSeat, "turn", h.TurnSeat)
	return newHandView(h), nil
}

// Act submits one betting action for a seat. The read-modify-write is
// serialized per hand and double-checked by the store's version condition.
func (s *Service) Act(handID, seatID string, action engine.ActionKind, amount int) (*engine.Result, error) {
	mu := s.lock("hand:" + handID)
	mu.Lock()
	defer mu.Unlock()

	h, err := s.store.GetHand(handID)
	if err != nil {
		return nil, err
	}
	seat, err := s.store.GetSeat(seatID)
	if err != nil {
		return nil, err
	}
	if seat.TableID != h.TableID {
		return nil, engine.ErrUnknownSeat
	}

	seats, err := s.store.SeatsForTable(h.TableID)
	if err != nil {
		return nil, err
	}

	streetBefore := h.Street
	result, err := engine.Act(h, seats, seat.SeatNo, action, amount)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateHand(h); err != nil {
		return nil, err
	}
	for _, sd := range seats {
		if err := s.store.UpdateSeat(sd); err != nil {
			return nil, err
		}
	}

	rec := &engine.ActionRecord{
		HandID: handID,
		SeatID: seatID,
		SeatNo: seat.SeatNo,
		Action: action,
		Amount: result.Spend,
		Street: streetBefore,
		At:     s.clock.Now(),
	}
	if err := s.store.AppendAction(rec); err != nil {
		// The hand and stacks are already persisted; the accepted action
		// must not read back to the caller as rejected.
		s.logger.Error("append action record failed", "hand", handID, "err", err)
	}

	s.logger.Info("action applied", "hand", handID, "seat", seat.SeatNo, "action", action,
		"spend", result.Spend, "street", result.Street, "status", result.Status)

	if result.Status == engine.StatusComplete {
		if err := s.finishTableIfBroke(h.TableID, seats); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// finishTableIfBroke ends the table once fewer than two stacks remain
func (s *Service) finishTableIfBroke(tableID string, seats []*table.Seat) error {
	funded := 0
	for _, seat := range seats {
		if seat.Chips > 0 {
			funded++
		}
	}
	if funded >= 2 {
		return nil
	}

	t, err := s.store.GetTable(tableID)
	if err != nil {
		return err
	}
	t.Finish()
	if err := s.store.UpdateTable(t); err != nil {
		return err
	}
	s.logger.Info("table finished", "table", tableID)
	return nil
}

// GetStateByHand returns the hand and seats with hole cards redacted
// except those belonging to the requesting seat (may be empty).
func (s *Service) GetStateByHand(handID, seatID string) (*StateView, error) {
	h, err := s.store.GetHand(handID)
	if err != nil {
		return nil, err
	}
	return s.stateView(h, seatID)
}

// GetStateByTable resolves the table's latest hand, if any, and returns
// the redacted view.
func (s *Service) GetStateByTable(tableID, seatID string) (*StateView, error) {
	t, err := s.store.GetTable(tableID)
	if err != nil {
		return nil, err
	}

	h, err := s.store.LatestHand(tableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.stateViewNoHand(t, seatID)
		}
		return nil, err
	}
	return s.stateView(h, seatID)
}

// ListTables returns all tables
func (s *Service) ListTables() ([]*table.Table, error) {
	return s.store.ListTables()
}

// ActionsForHand returns the hand's audit log in append order
func (s *Service) ActionsForHand(handID string) ([]*engine.ActionRecord, error) {
	return s.store.ActionsForHand(handID)
}

func (s *Service) stateView(h *engine.Hand, seatID string) (*StateView, error) {
	t, err := s.store.GetTable(h.TableID)
	if err != nil {
		return nil, err
	}
	seats, err := s.store.SeatsForTable(h.TableID)
	if err != nil {
		return nil, err
	}
	return newStateView(t, h, seats, seatID), nil
}

func (s *Service) stateViewNoHand(t *table.Table, seatID string) (*StateView, error) {
	seats, err := s.store.SeatsForTable(t.ID)
	if err != nil {
		return nil, err
	}
	return newStateView(t, nil, seats, seatID), nil
}
