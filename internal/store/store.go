// Package store persists tables, seats, hands, and the append-only action
// log. Hands carry a version that updates must match, so two concurrent
// writers cannot both observe the same turn and both succeed.
package store

import (
	"errors"

	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/table"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrExists          = errors.New("already exists")
	ErrVersionConflict = errors.New("hand version conflict")
)

// Store is the persistence boundary for the engine's state
type Store interface {
	CreateTable(t *table.Table) error
	UpdateTable(t *table.Table) error
	GetTable(id string) (*table.Table, error)
	ListTables() ([]*table.Table, error)

	CreateSeat(s *table.Seat) error
	UpdateSeat(s *table.Seat) error
	GetSeat(id string) (*table.Seat, error)
	SeatsForTable(tableID string) ([]*table.Seat, error)

	// CreateHand stores a new hand and marks it the table's latest.
	CreateHand(h *engine.Hand) error
	// UpdateHand is a conditional write: it fails with ErrVersionConflict
	// unless the stored version matches h.Version, then bumps h.Version.
	UpdateHand(h *engine.Hand) error
	GetHand(id string) (*engine.Hand, error)
	LatestHand(tableID string) (*engine.Hand, error)

	AppendAction(rec *engine.ActionRecord) error
	ActionsForHand(handID string) ([]*engine.ActionRecord, error)
}
