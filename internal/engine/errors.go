package engine

import "errors"

// Validation and not-found errors surfaced to callers. Nothing here mutates
// state; a rejected action leaves the hand untouched.
var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrHandComplete  = errors.New("hand is complete")
	ErrIllegalAction = errors.New("illegal action")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoActiveSeats = errors.New("no active seats")
	ErrUnknownSeat   = errors.New("seat is not in this hand")
)

// Kind maps an engine error to its machine-readable code for the wire
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, ErrHandComplete):
		return "hand_complete"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrIllegalAction), errors.Is(err, ErrUnknownSeat):
		return "illegal_action"
	case errors.Is(err, ErrNoActiveSeats):
		return "no_active_seats"
	default:
		return "internal_error"
	}
}
