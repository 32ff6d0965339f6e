package service

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/holdem/internal/config"
	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/store"
	"github.com/hearthside/holdem/internal/table"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	defaults := config.Tables{
		SmallBlind:    10,
		StartingStack: 100,
		MaxSeats:      4,
		Variant:       "texas_holdem",
	}
	return New(store.NewMemory(), log.New(io.Discard), quartz.NewMock(t), deck.NewRNG(1), defaults, opts...)
}

func seatTwo(t *testing.T, svc *Service) (*table.Table, *table.Seat, *table.Seat) {
	t.Helper()
	tbl, err := svc.CreateTable("alice", "fam_1", "Friday Night", "", 0, 0)
	require.NoError(t, err)

	a, err := svc.JoinTable(tbl.ID, "alice")
	require.NoError(t, err)
	b, err := svc.JoinTable(tbl.ID, "bob")
	require.NoError(t, err)
	return tbl, a, b
}

func TestCreateTableAppliesDefaults(t *testing.T) {
	svc := newTestService(t)

	tbl, err := svc.CreateTable("alice", "fam_1", "Friday Night", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "texas_holdem", tbl.Variant)
	assert.Equal(t, 10, tbl.SmallBlind)
	assert.Equal(t, 100, tbl.StartingStack)
	assert.Equal(t, "alice", tbl.CreatorID)
	assert.Equal(t, table.StatusOpen, tbl.Status)

	tables, err := svc.ListTables()
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestJoinTable(t *testing.T) {
	svc := newTestService(t)
	tbl, a, b := seatTwo(t, svc)

	assert.Equal(t, 1, a.SeatNo)
	assert.Equal(t, 2, b.SeatNo)
	assert.Equal(t, 100, a.Chips)

	_, err := svc.JoinTable(tbl.ID, "alice")
	assert.ErrorIs(t, err, table.ErrAlreadySeated)

	got, err := svc.store.GetTable(tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, table.StatusActive, got.Status)
}

func TestJoinTableAuthorizer(t *testing.T) {
	svc := newTestService(t, WithAuthorizer(func(userID string, tbl *table.Table) bool {
		return userID == "alice"
	}))
	tbl, err := svc.CreateTable("alice", "fam_1", "Members Only", "", 0, 0)
	require.NoError(t, err)

	_, err = svc.JoinTable(tbl.ID, "alice")
	assert.NoError(t, err)

	_, err = svc.JoinTable(tbl.ID, "mallory")
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestJoinTableNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.JoinTable("tbl_missing", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStartHandAndAct(t *testing.T) {
	svc := newTestService(t)
	tbl, a, b := seatTwo(t, svc)

	hand, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, hand.HandNo)
	assert.Equal(t, a.SeatNo, hand.DealerSeat, "first hand deals from the lowest seat")
	assert.Equal(t, a.SeatNo, hand.TurnSeat, "dealer acts first heads-up")
	assert.Equal(t, engine.StatusBetting, hand.Status)

	_, err = svc.StartHand(tbl.ID)
	assert.ErrorIs(t, err, engine.ErrIllegalAction, "one hand at a time per table")

	result, err := svc.Act(hand.ID, a.ID, engine.ActionFold, 0)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusComplete, result.Status)
	assert.Equal(t, []int{b.SeatNo}, result.WinnerSeats)

	recs, err := svc.ActionsForHand(hand.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, engine.ActionFold, recs[0].Action)
	assert.Equal(t, a.ID, recs[0].SeatID)
	assert.Equal(t, engine.StreetPreflop, recs[0].Street)

	// The next hand rotates the dealer.
	next, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.HandNo)
	assert.Equal(t, b.SeatNo, next.DealerSeat)
}

func TestActValidatesSeatBelongsToHand(t *testing.T) {
	svc := newTestService(t)
	tbl, _, _ := seatTwo(t, svc)

	other, err := svc.CreateTable("carol", "fam_1", "Other", "", 0, 0)
	require.NoError(t, err)
	intruder, err := svc.JoinTable(other.ID, "carol")
	require.NoError(t, err)

	hand, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)

	_, err = svc.Act(hand.ID, intruder.ID, engine.ActionCheck, 0)
	assert.ErrorIs(t, err, engine.ErrUnknownSeat)
}

func TestActNotYourTurnLeavesStateUntouched(t *testing.T) {
	svc := newTestService(t)
	tbl, _, b := seatTwo(t, svc)

	hand, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)

	_, err = svc.Act(hand.ID, b.ID, engine.ActionCheck, 0)
	assert.ErrorIs(t, err, engine.ErrNotYourTurn)

	state, err := svc.GetStateByHand(hand.ID, "")
	require.NoError(t, err)
	assert.Equal(t, hand.TurnSeat, state.Hand.TurnSeat)
}

func TestStateRedaction(t *testing.T) {
	svc := newTestService(t)
	tbl, a, b := seatTwo(t, svc)

	_, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)

	state, err := svc.GetStateByTable(tbl.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, state.Hand)

	for _, sv := range state.Seats {
		switch sv.ID {
		case a.ID:
			assert.Len(t, sv.HoleCards, 2, "requesting seat sees its own cards")
		case b.ID:
			assert.Empty(t, sv.HoleCards, "other seats stay hidden")
		}
	}

	// No seat: everything is redacted.
	state, err = svc.GetStateByTable(tbl.ID, "")
	require.NoError(t, err)
	for _, sv := range state.Seats {
		assert.Empty(t, sv.HoleCards)
	}
}

func TestGetStateByTableBeforeFirstHand(t *testing.T) {
	svc := newTestService(t)
	tbl, a, _ := seatTwo(t, svc)

	state, err := svc.GetStateByTable(tbl.ID, a.ID)
	require.NoError(t, err)
	assert.Nil(t, state.Hand)
	assert.Len(t, state.Seats, 2)
}

// auditFailStore fails AppendAction on demand while delegating everything
// else to the wrapped store.
type auditFailStore struct {
	store.Store
	fail bool
}

func (s *auditFailStore) AppendAction(rec *engine.ActionRecord) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.Store.AppendAction(rec)
}

func TestActSucceedsWhenAuditAppendFails(t *testing.T) {
	st := &auditFailStore{Store: store.NewMemory()}
	defaults := config.Tables{
		SmallBlind:    10,
		StartingStack: 100,
		MaxSeats:      4,
		Variant:       "texas_holdem",
	}
	svc := New(st, log.New(io.Discard), quartz.NewMock(t), deck.NewRNG(1), defaults)
	tbl, a, _ := seatTwo(t, svc)

	hand, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)

	st.fail = true
	result, err := svc.Act(hand.ID, a.ID, engine.ActionBet, 20)
	require.NoError(t, err, "the applied action is not reported as rejected")
	assert.Equal(t, engine.StatusBetting, result.Status)

	got, err := svc.store.GetSeat(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.Chips, "the mutation stuck")

	recs, err := svc.ActionsForHand(hand.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestActPersistsStacks(t *testing.T) {
	svc := newTestService(t)
	tbl, a, _ := seatTwo(t, svc)

	hand, err := svc.StartHand(tbl.ID)
	require.NoError(t, err)

	_, err = svc.Act(hand.ID, a.ID, engine.ActionBet, 20)
	require.NoError(t, err)

	got, err := svc.store.GetSeat(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.Chips)

	state, err := svc.GetStateByHand(hand.ID, "")
	require.NoError(t, err)
	for _, sv := range state.Seats {
		if sv.ID == a.ID {
			assert.Equal(t, 20, sv.Committed)
		}
	}
}
