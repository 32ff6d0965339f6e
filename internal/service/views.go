package service

import (
	"time"

	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/table"
)

// HandView is a hand as shown to callers: board, pot, turn, and per-seat
// commitments, never the remaining deck. Hole cards appear only on the
// SeatView of the requesting seat.
type HandView struct {
	ID          string        `json:"id"`
	TableID     string        `json:"tableId"`
	HandNo      int           `json:"handNo"`
	DealerSeat  int           `json:"dealerSeat"`
	TurnSeat    int           `json:"turnSeat"`
	Street      engine.Street `json:"street"`
	Status      engine.Status `json:"status"`
	Board       []deck.Card   `json:"board"`
	Pot         int           `json:"pot"`
	CurrentBet  int           `json:"currentBet"`
	WinnerSeats []int         `json:"winnerSeats,omitempty"`
	WinningHand string        `json:"winningHand,omitempty"`
	StartedAt   time.Time     `json:"startedAt"`
}

// SeatView is one seat as shown to callers
type SeatView struct {
	ID        string           `json:"id"`
	SeatNo    int              `json:"seatNo"`
	UserID    string           `json:"userId"`
	Chips     int              `json:"chips"`
	Status    table.SeatStatus `json:"status"`
	Committed int              `json:"committed"`
	Folded    bool             `json:"folded"`
	HoleCards []deck.Card      `json:"holeCards,omitempty"`
}

// StateView is the response to a get-state request
type StateView struct {
	Table *table.Table `json:"table"`
	Hand  *HandView    `json:"hand,omitempty"`
	Seats []SeatView   `json:"seats"`
}

func newHandView(h *engine.Hand) *HandView {
	return &HandView{
		ID:          h.ID,
		TableID:     h.TableID,
		HandNo:      h.HandNo,
		DealerSeat:  h.DealerSeat,
		TurnSeat:    h.TurnSeat,
		Street:      h.Street,
		Status:      h.Status,
		Board:       append([]deck.Card(nil), h.Board...),
		Pot:         h.Pot,
		CurrentBet:  h.CurrentBet,
		WinnerSeats: append([]int(nil), h.WinnerSeats...),
		WinningHand: h.WinningHand,
		StartedAt:   h.StartedAt,
	}
}

// newStateView assembles the redacted view for the requesting seat.
// Passing an empty seatID redacts every hole card.
func newStateView(t *table.Table, h *engine.Hand, seats []*table.Seat, seatID string) *StateView {
	view := &StateView{Table: t, Seats: make([]SeatView, 0, len(seats))}
	if h != nil {
		view.Hand = newHandView(h)
	}

	for _, seat := range seats {
		sv := SeatView{
			ID:     seat.ID,
			SeatNo: seat.SeatNo,
			UserID: seat.UserID,
			Chips:  seat.Chips,
			Status: seat.Status,
		}
		if h != nil {
			if entry, ok := h.Committed[seat.SeatNo]; ok {
				sv.Committed = entry.Amount
				sv.Folded = entry.Folded
			}
			if seat.ID == seatID && seatID != "" {
				sv.HoleCards = append([]deck.Card(nil), h.HoleCards[seat.SeatNo]...)
			}
		}
		view.Seats = append(view.Seats, sv)
	}

	return view
}
