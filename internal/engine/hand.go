// Package engine implements the server-authoritative hand state machine:
// dealing, betting-street progression, action legality, and pot settlement.
// All functions are pure state transitions over a Hand and the table's
// seats; persistence, locking, and transport live with the caller.
package engine

import (
	"fmt"
	rand "math/rand/v2"
	"sort"
	"time"

	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/table"
)

// Street is the betting phase of a hand
type Street string

const (
	StreetPreflop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
	StreetDone    Street = "done"
)

// Status is the hand lifecycle state
type Status string

const (
	StatusDealing  Status = "dealing"
	StatusBetting  Status = "betting"
	StatusComplete Status = "complete"
)

// ActionKind is a betting action submitted by a seat
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionBet   ActionKind = "bet"
	ActionRaise ActionKind = "raise"
)

// SeatCommit tracks one seat's chips committed during the current street.
// A folded seat's amount is frozen for the audit trail; the folded flag
// excludes it from all turn and raise computations for the rest of the hand.
type SeatCommit struct {
	Amount int  `json:"amount"`
	Folded bool `json:"folded"`
}

// Hand is the full persisted state of one hand. It is mutated exclusively
// by Act; the caller serializes concurrent access per hand.
type Hand struct {
	ID            string              `json:"id"`
	TableID       string              `json:"tableId"`
	HandNo        int                 `json:"handNo"`
	DealerSeat    int                 `json:"dealerSeat"`
	TurnSeat      int                 `json:"turnSeat"`
	Street        Street              `json:"street"`
	Status        Status              `json:"status"`
	Board         []deck.Card         `json:"board"`
	HoleCards     map[int][]deck.Card `json:"holeCards"`
	Deck          deck.Deck           `json:"deck"`
	Pot           int                 `json:"pot"`
	CurrentBet    int                 `json:"currentBet"`
	SmallBlind    int                 `json:"smallBlind"`
	Committed     map[int]*SeatCommit `json:"committed"`
	LastAggressor *int                `json:"lastAggressor,omitempty"`
	WinnerSeats   []int               `json:"winnerSeats,omitempty"`
	WinningHand   string              `json:"winningHand,omitempty"`
	StartedAt     time.Time           `json:"startedAt"`
	Version       int                 `json:"version"`
}

// ActionRecord is one accepted action, appended to the audit log exactly
// once and never mutated.
type ActionRecord struct {
	HandID string     `json:"handId"`
	SeatID string     `json:"seatId"`
	SeatNo int        `json:"seatNo"`
	Action ActionKind `json:"action"`
	Amount int        `json:"amount"`
	Street Street     `json:"street"`
	At     time.Time  `json:"at"`
}

// HandOption configures StartHand
type HandOption func(*handConfig)

type handConfig struct {
	deck      deck.Deck
	startedAt time.Time
}

// WithDeck supplies a pre-arranged deck instead of a fresh shuffle. Cards
// are drawn from the end; used for deterministic tests.
func WithDeck(d deck.Deck) HandOption {
	return func(c *handConfig) { c.deck = d }
}

// WithStartedAt stamps the hand's start time
func WithStartedAt(t time.Time) HandOption {
	return func(c *handConfig) { c.startedAt = t }
}

// StartHand deals a new hand for the table. The dealer rotates to the next
// eligible seat after prevDealerSeat (pass -1 for the table's first hand,
// which picks the lowest seat number). Each eligible seat receives two hole
// cards; first to act is the seat two positions after the dealer.
func StartHand(id string, rng *rand.Rand, tbl *table.Table, seats []*table.Seat, prevDealerSeat int, opts ...HandOption) (*Hand, error) {
	cfg := handConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	eligible := eligibleSeatNos(seats)
	if len(eligible) == 0 {
		return nil, ErrNoActiveSeats
	}

	dealer := eligible[0]
	if prevDealerSeat >= 0 {
		dealer = nextInRing(eligible, prevDealerSeat)
	}

	d := cfg.deck
	if d == nil {
		d = deck.NewShuffled(rng)
	}

	h := &Hand{
		ID:         id,
		TableID:    tbl.ID,
		HandNo:     tbl.HandCount + 1,
		DealerSeat: dealer,
		Street:     StreetPreflop,
		Status:     StatusDealing,
		Board:      []deck.Card{},
		HoleCards:  make(map[int][]deck.Card, len(eligible)),
		Deck:       d,
		SmallBlind: tbl.SmallBlind,
		Committed:  make(map[int]*SeatCommit, len(eligible)),
		StartedAt:  cfg.startedAt,
		Version:    1,
	}

	for _, seatNo := range eligible {
		cards, ok := h.Deck.DrawN(2)
		if !ok {
			return nil, fmt.Errorf("internal: deck exhausted dealing hole cards")
		}
		h.HoleCards[seatNo] = cards
		h.Committed[seatNo] = &SeatCommit{}
	}

	// Skip the dealer, skip one more; the same convention heads-up and
	// multi-way.
	h.TurnSeat = nextInRing(eligible, nextInRing(eligible, dealer))
	h.Status = StatusBetting

	return h, nil
}

// seatNos returns the hand's seat numbers in ascending order
func (h *Hand) seatNos() []int {
	nos := make([]int, 0, len(h.Committed))
	for no := range h.Committed {
		nos = append(nos, no)
	}
	sort.Ints(nos)
	return nos
}

// contenders returns seat numbers still in the hand, ascending
func (h *Hand) contenders() []int {
	var nos []int
	for _, no := range h.seatNos() {
		if !h.Committed[no].Folded {
			nos = append(nos, no)
		}
	}
	return nos
}

// Clone returns a deep copy of the hand
func (h *Hand) Clone() *Hand {
	c := *h
	c.Board = append([]deck.Card(nil), h.Board...)
	c.Deck = append(deck.Deck(nil), h.Deck...)
	c.HoleCards = make(map[int][]deck.Card, len(h.HoleCards))
	for no, cards := range h.HoleCards {
		c.HoleCards[no] = append([]deck.Card(nil), cards...)
	}
	c.Committed = make(map[int]*SeatCommit, len(h.Committed))
	for no, sc := range h.Committed {
		cp := *sc
		c.Committed[no] = &cp
	}
	if h.LastAggressor != nil {
		v := *h.LastAggressor
		c.LastAggressor = &v
	}
	c.WinnerSeats = append([]int(nil), h.WinnerSeats...)
	return &c
}

// eligibleSeatNos returns ascending seat numbers of seats that can be dealt in
func eligibleSeatNos(seats []*table.Seat) []int {
	var nos []int
	for _, s := range seats {
		if s.Eligible() {
			nos = append(nos, s.SeatNo)
		}
	}
	sort.Ints(nos)
	return nos
}

// nextInRing returns the smallest seat number greater than from, wrapping
// to the smallest overall. Seat numbers need not be dense; active status is
// the only ordering filter.
func nextInRing(ring []int, from int) int {
	for _, no := range ring {
		if no > from {
			return no
		}
	}
	return ring[0]
}

func nextStreet(s Street) Street {
	switch s {
	case StreetPreflop:
		return StreetFlop
	case StreetFlop:
		return StreetTurn
	case StreetTurn:
		return StreetRiver
	default:
		return StreetDone
	}
}

func streetCards(s Street) int {
	if s == StreetFlop {
		return 3
	}
	return 1
}
