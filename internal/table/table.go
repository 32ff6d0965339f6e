// Package table holds the table and seat directory: who sits where, with
// how many chips, under which table configuration. Identity (user and
// family IDs) is opaque; it is supplied by an external membership system.
package table

import (
	"errors"
	"fmt"
)

// Status is the table lifecycle state
type Status string

const (
	StatusOpen     Status = "open"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// SeatStatus marks whether a seat participates in new hands
type SeatStatus string

const (
	SeatActive     SeatStatus = "active"
	SeatSittingOut SeatStatus = "sitting_out"
)

var (
	ErrTableFull     = errors.New("table is full")
	ErrTableFinished = errors.New("table is finished")
	ErrAlreadySeated = errors.New("user already seated at table")
)

// Table is a poker table and its configuration
type Table struct {
	ID            string `json:"id"`
	FamilyID      string `json:"familyId"`
	Name          string `json:"name"`
	Variant       string `json:"variant"`
	SmallBlind    int    `json:"smallBlind"`
	StartingStack int    `json:"startingStack"`
	MaxSeats      int    `json:"maxSeats"`
	Status        Status `json:"status"`
	CreatorID     string `json:"creatorId"`
	NextSeatNo    int    `json:"nextSeatNo"`
	HandCount     int    `json:"handCount"`
}

// Seat is one occupied position at a table. Chips are debited by the
// betting ledger and credited by settlement only; a stack never goes
// negative.
type Seat struct {
	ID      string     `json:"id"`
	TableID string     `json:"tableId"`
	UserID  string     `json:"userId"`
	SeatNo  int        `json:"seatNo"`
	Chips   int        `json:"chips"`
	Status  SeatStatus `json:"status"`
}

// New creates an open table with the given configuration
func New(id, familyID, creatorID, name, variant string, smallBlind, startingStack, maxSeats int) (*Table, error) {
	if smallBlind <= 0 {
		return nil, fmt.Errorf("small blind must be positive, got %d", smallBlind)
	}
	if startingStack <= 0 {
		return nil, fmt.Errorf("starting stack must be positive, got %d", startingStack)
	}
	if maxSeats < 2 || maxSeats > 10 {
		return nil, fmt.Errorf("max seats must be between 2 and 10, got %d", maxSeats)
	}

	return &Table{
		ID:            id,
		FamilyID:      familyID,
		Name:          name,
		Variant:       variant,
		SmallBlind:    smallBlind,
		StartingStack: startingStack,
		MaxSeats:      maxSeats,
		Status:        StatusOpen,
		CreatorID:     creatorID,
		NextSeatNo:    1,
	}, nil
}

// Seat assigns the next monotonically increasing seat number to a user and
// returns the new seat. The caller supplies the seat ID and the existing
// seats for occupancy checks. Once two or more seats are occupied the table
// becomes active.
func (t *Table) Seat(seatID, userID string, existing []*Seat) (*Seat, error) {
	if t.Status == StatusFinished {
		return nil, ErrTableFinished
	}
	if len(existing) >= t.MaxSeats {
		return nil, ErrTableFull
	}
	for _, s := range existing {
		if s.UserID == userID {
			return nil, ErrAlreadySeated
		}
	}

	seat := &Seat{
		ID:      seatID,
		TableID: t.ID,
		UserID:  userID,
		SeatNo:  t.NextSeatNo,
		Chips:   t.StartingStack,
		Status:  SeatActive,
	}
	t.NextSeatNo++

	if len(existing)+1 >= 2 && t.Status == StatusOpen {
		t.Status = StatusActive
	}

	return seat, nil
}

// Finish marks the table finished. Terminal: no further hands are dealt.
func (t *Table) Finish() {
	t.Status = StatusFinished
}

// Eligible reports whether a seat can be dealt into a new hand
func (s *Seat) Eligible() bool {
	return s.Status == SeatActive && s.Chips > 0
}
