package engine

import (
	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/evaluator"
	"github.com/hearthside/holdem/internal/table"
)

// settleUncontested awards the whole pot to the single remaining seat
func (h *Hand) settleUncontested(bySeat map[int]*table.Seat, winner int) {
	if seat := bySeat[winner]; seat != nil {
		seat.Chips += h.Pot
	}
	h.WinnerSeats = []int{winner}
	h.WinningHand = "uncontested"
	h.finish()
}

// settleShowdown evaluates every contender's best 5-of-7 hand, collects all
// seats tied at the maximum strength, and splits the pot between them. The
// integer-division remainder goes to winners in ascending seat order so the
// split is deterministic.
func (h *Hand) settleShowdown(bySeat map[int]*table.Seat) {
	var best evaluator.Strength
	var winners []int

	for _, no := range h.contenders() {
		cards := make([]deck.Card, 0, len(h.HoleCards[no])+len(h.Board))
		cards = append(cards, h.HoleCards[no]...)
		cards = append(cards, h.Board...)

		s := evaluator.BestOfUpTo7(cards)
		switch cmp := evaluator.Compare(s, best); {
		case len(winners) == 0 || cmp > 0:
			best = s
			winners = []int{no}
		case cmp == 0:
			winners = append(winners, no)
		}
	}

	share := h.Pot / len(winners)
	remainder := h.Pot % len(winners)
	for i, no := range winners { // contenders() is ascending
		if seat := bySeat[no]; seat != nil {
			seat.Chips += share
			if i < remainder {
				seat.Chips++
			}
		}
	}

	h.WinnerSeats = winners
	h.WinningHand = evaluator.Describe(best)
	h.finish()
}

// finish marks the hand terminal. Pot retains the awarded total for display.
func (h *Hand) finish() {
	h.Street = StreetDone
	h.Status = StatusComplete
	h.TurnSeat = -1
}
