package engine

import (
	"fmt"

	"github.com/hearthside/holdem/internal/table"
)

// CallNeeded returns how many chips the seat must add to match the current
// bet for this street.
func (h *Hand) CallNeeded(seatNo int) int {
	entry, ok := h.Committed[seatNo]
	if !ok {
		return 0
	}
	if need := h.CurrentBet - entry.Amount; need > 0 {
		return need
	}
	return 0
}

// MinRaise returns the minimum raise increment (the portion above the
// call) for the seat. Opening bets must be at least two small blinds.
func (h *Hand) MinRaise(seatNo int) int {
	if h.CurrentBet == 0 {
		return 2 * h.SmallBlind
	}
	if min := h.CallNeeded(seatNo) + h.SmallBlind; min > h.SmallBlind {
		return min
	}
	return h.SmallBlind
}

// applyAction validates and applies a single betting action for the seat on
// turn, debiting the seat's stack into its committed entry. Returns the
// chips spent. State is untouched on error.
func (h *Hand) applyAction(seat *table.Seat, kind ActionKind, amount int) (int, error) {
	entry := h.Committed[seat.SeatNo]
	callNeeded := h.CallNeeded(seat.SeatNo)

	switch kind {
	case ActionFold:
		entry.Folded = true
		// Chips committed this street are forfeited to the pot. The
		// recorded amount stays frozen for the audit trail.
		h.Pot += entry.Amount
		if h.LastAggressor != nil && *h.LastAggressor == seat.SeatNo {
			h.LastAggressor = nil
		}
		return 0, nil

	case ActionCheck:
		if callNeeded != 0 {
			return 0, fmt.Errorf("%w: cannot check facing a bet of %d", ErrIllegalAction, callNeeded)
		}
		return 0, nil

	case ActionCall:
		spend := callNeeded
		if spend > seat.Chips {
			spend = seat.Chips // call all-in for less
		}
		seat.Chips -= spend
		entry.Amount += spend
		return spend, nil

	case ActionBet, ActionRaise:
		if amount <= 0 {
			return 0, fmt.Errorf("%w: bet amount must be positive", ErrInvalidAmount)
		}
		spend := amount
		if spend > seat.Chips {
			spend = seat.Chips
		}
		if spend < callNeeded {
			return 0, fmt.Errorf("%w: %d does not cover the %d to call", ErrInvalidAmount, spend, callNeeded)
		}
		allIn := spend == seat.Chips
		if raisePart := spend - callNeeded; !allIn && raisePart < h.MinRaise(seat.SeatNo) {
			return 0, fmt.Errorf("%w: raise of %d below minimum %d", ErrInvalidAmount, raisePart, h.MinRaise(seat.SeatNo))
		}

		seat.Chips -= spend
		entry.Amount += spend
		if entry.Amount > h.CurrentBet {
			h.CurrentBet = entry.Amount
			aggressor := seat.SeatNo
			h.LastAggressor = &aggressor
		}
		return spend, nil

	default:
		return 0, fmt.Errorf("%w: unknown action %q", ErrIllegalAction, kind)
	}
}

// allMatched reports whether every contending seat that can still act has
// matched the current bet. All-in seats are exempt.
func (h *Hand) allMatched(bySeat map[int]*table.Seat) bool {
	for _, no := range h.contenders() {
		seat := bySeat[no]
		if seat == nil || seat.Chips == 0 {
			continue
		}
		if h.Committed[no].Amount != h.CurrentBet {
			return false
		}
	}
	return true
}

// actionable returns contending seat numbers with chips behind, ascending
func (h *Hand) actionable(bySeat map[int]*table.Seat) []int {
	var nos []int
	for _, no := range h.contenders() {
		if seat := bySeat[no]; seat != nil && seat.Chips > 0 {
			nos = append(nos, no)
		}
	}
	return nos
}

// collectCommitted sweeps all contending seats' street commitments into the
// pot and resets the street betting state. Folded amounts were already
// collected at fold time and stay frozen.
func (h *Hand) collectCommitted() {
	for _, no := range h.contenders() {
		h.Pot += h.Committed[no].Amount
		h.Committed[no].Amount = 0
	}
	h.CurrentBet = 0
	h.LastAggressor = nil
}
