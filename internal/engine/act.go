package engine

import (
	"fmt"

	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/table"
)

// Result is the outcome of one accepted action
type Result struct {
	SeatNo      int         `json:"seatNo"`
	Action      ActionKind  `json:"action"`
	Spend       int         `json:"spend"`
	NextSeat    int         `json:"nextSeat"` // -1 once the hand completes
	Street      Street      `json:"street"`
	Status      Status      `json:"status"`
	Board       []deck.Card `json:"board"`
	Pot         int         `json:"pot"`
	WinnerSeats []int       `json:"winnerSeats,omitempty"`
	WinningHand string      `json:"winningHand,omitempty"`
}

// Act validates and applies one betting action by the seat on turn, then
// advances the turn, closes the betting round, deals the next street, or
// settles the hand as required. Seats' chip stacks are mutated in place.
// On error the hand and seats are unchanged.
//
// With no bet outstanding the round closes as soon as the turn would reach
// the first contender at or after the dealer, so a checked-around street can
// end before every seat has checked (see the round-closing notes in
// DESIGN.md).
func Act(h *Hand, seats []*table.Seat, seatNo int, kind ActionKind, amount int) (*Result, error) {
	if h.Status == StatusComplete {
		return nil, ErrHandComplete
	}
	if h.Status != StatusBetting {
		return nil, fmt.Errorf("%w: hand is not betting", ErrIllegalAction)
	}

	entry, ok := h.Committed[seatNo]
	if !ok {
		return nil, ErrUnknownSeat
	}
	if entry.Folded {
		return nil, fmt.Errorf("%w: seat %d has folded", ErrIllegalAction, seatNo)
	}
	if seatNo != h.TurnSeat {
		return nil, fmt.Errorf("%w: seat %d acted on seat %d's turn", ErrNotYourTurn, seatNo, h.TurnSeat)
	}

	bySeat := make(map[int]*table.Seat, len(seats))
	for _, s := range seats {
		bySeat[s.SeatNo] = s
	}
	seat := bySeat[seatNo]
	if seat == nil {
		return nil, ErrUnknownSeat
	}

	spend, err := h.applyAction(seat, kind, amount)
	if err != nil {
		return nil, err
	}

	if contenders := h.contenders(); len(contenders) == 1 {
		// Everyone else folded: uncontested win, no evaluator run.
		h.collectCommitted()
		h.settleUncontested(bySeat, contenders[0])
		return h.result(seatNo, kind, spend), nil
	}

	if closed := h.roundClosed(bySeat, seatNo); !closed {
		h.TurnSeat = h.nextActionable(bySeat, seatNo)
		return h.result(seatNo, kind, spend), nil
	}

	if err := h.advance(bySeat); err != nil {
		return nil, err
	}
	return h.result(seatNo, kind, spend), nil
}

// roundClosed decides whether the betting round ends after seatNo's action.
// The round closes when all contenders who can act have matched the current
// bet and the next contender would be the round-closing seat: the last
// aggressor this street, or on a checked-around street the first contender
// at or after the dealer (the dealer itself unless it folded). With one or
// zero seats able to act there is nobody left to reopen the betting.
func (h *Hand) roundClosed(bySeat map[int]*table.Seat, seatNo int) bool {
	actionable := h.actionable(bySeat)
	switch len(actionable) {
	case 0:
		return true
	case 1:
		return h.Committed[actionable[0]].Amount == h.CurrentBet
	}

	if !h.allMatched(bySeat) {
		return false
	}

	closing := nextInRing(h.contenders(), h.DealerSeat-1)
	if h.LastAggressor != nil {
		closing = *h.LastAggressor
	}
	return nextInRing(h.contenders(), seatNo) == closing
}

// nextActionable returns the next contending seat with chips behind after
// from, wrapping by seat number.
func (h *Hand) nextActionable(bySeat map[int]*table.Seat, from int) int {
	return nextInRing(h.actionable(bySeat), from)
}

// advance closes the street: commitments move to the pot, the next street's
// cards are dealt, and the first contender after the dealer acts first. If
// fewer than two seats can still bet, the remaining streets run out to
// showdown.
func (h *Hand) advance(bySeat map[int]*table.Seat) error {
	for {
		h.collectCommitted()

		if h.Street == StreetRiver {
			h.settleShowdown(bySeat)
			return nil
		}

		next := nextStreet(h.Street)
		cards, ok := h.Deck.DrawN(streetCards(next))
		if !ok {
			return fmt.Errorf("internal: deck exhausted dealing %s", next)
		}
		h.Board = append(h.Board, cards...)
		h.Street = next

		if actionable := h.actionable(bySeat); len(actionable) >= 2 {
			h.TurnSeat = nextInRing(actionable, h.DealerSeat)
			return nil
		}
		// all-in runout, keep dealing
	}
}

func (h *Hand) result(seatNo int, kind ActionKind, spend int) *Result {
	r := &Result{
		SeatNo:      seatNo,
		Action:      kind,
		Spend:       spend,
		NextSeat:    -1,
		Street:      h.Street,
		Status:      h.Status,
		Board:       append([]deck.Card(nil), h.Board...),
		Pot:         h.Pot,
		WinnerSeats: append([]int(nil), h.WinnerSeats...),
		WinningHand: h.WinningHand,
	}
	if h.Status == StatusBetting {
		r.NextSeat = h.TurnSeat
	}
	return r
}
