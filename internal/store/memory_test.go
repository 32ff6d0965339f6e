package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/holdem/internal/deck"
	"github.com/hearthside/holdem/internal/engine"
	"github.com/hearthside/holdem/internal/table"
)

func testTable(id string) *table.Table {
	return &table.Table{
		ID:            id,
		Name:          "test",
		Variant:       "texas_holdem",
		SmallBlind:    10,
		StartingStack: 1000,
		MaxSeats:      8,
		Status:        table.StatusOpen,
		NextSeatNo:    1,
	}
}

func testSeat(id, tableID string, no int) *table.Seat {
	return &table.Seat{
		ID:      id,
		TableID: tableID,
		UserID:  "user_" + id,
		SeatNo:  no,
		Chips:   1000,
		Status:  table.SeatActive,
	}
}

func testHand(id, tableID string) *engine.Hand {
	return &engine.Hand{
		ID:      id,
		TableID: tableID,
		HandNo:  1,
		Street:  engine.StreetPreflop,
		Status:  engine.StatusBetting,
		Board:   []deck.Card{},
		HoleCards: map[int][]deck.Card{
			1: deck.MustParseAll("As", "Kh"),
		},
		Deck:       deck.Deck(deck.MustParseAll("2c", "3c", "4c")),
		SmallBlind: 10,
		Committed:  map[int]*engine.SeatCommit{1: {}},
		Version:    1,
	}
}

func TestMemoryTableLifecycle(t *testing.T) {
	m := NewMemory()

	tbl := testTable("tbl_1")
	require.NoError(t, m.CreateTable(tbl))
	assert.ErrorIs(t, m.CreateTable(tbl), ErrExists)

	got, err := m.GetTable("tbl_1")
	require.NoError(t, err)
	assert.Equal(t, tbl, got)

	got.Name = "renamed"
	require.NoError(t, m.UpdateTable(got))

	again, err := m.GetTable("tbl_1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", again.Name)

	_, err = m.GetTable("tbl_missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.UpdateTable(testTable("tbl_missing")), ErrNotFound)

	tables, err := m.ListTables()
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestMemoryReadsReturnCopies(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.CreateTable(testTable("tbl_1")))

	a, err := m.GetTable("tbl_1")
	require.NoError(t, err)
	a.Name = "mutated"

	b, err := m.GetTable("tbl_1")
	require.NoError(t, err)
	assert.Equal(t, "test", b.Name, "caller mutations never leak into the store")
}

func TestMemorySeats(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.CreateTable(testTable("tbl_1")))
	require.NoError(t, m.CreateSeat(testSeat("seat_a", "tbl_1", 1)))
	require.NoError(t, m.CreateSeat(testSeat("seat_b", "tbl_1", 2)))

	seats, err := m.SeatsForTable("tbl_1")
	require.NoError(t, err)
	require.Len(t, seats, 2)

	seats[0].Chips = 500
	require.NoError(t, m.UpdateSeat(seats[0]))

	got, err := m.GetSeat(seats[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 500, got.Chips)

	empty, err := m.SeatsForTable("tbl_other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryHandVersionConflict(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.CreateHand(testHand("hand_1", "tbl_1")))

	current, err := m.GetHand("hand_1")
	require.NoError(t, err)
	stale, err := m.GetHand("hand_1")
	require.NoError(t, err)

	current.Pot = 40
	require.NoError(t, m.UpdateHand(current))
	assert.Equal(t, 2, current.Version, "successful write bumps the caller's version")

	stale.Pot = 60
	assert.ErrorIs(t, m.UpdateHand(stale), ErrVersionConflict)

	got, err := m.GetHand("hand_1")
	require.NoError(t, err)
	assert.Equal(t, 40, got.Pot, "stale write changed nothing")
}

func TestMemoryLatestHand(t *testing.T) {
	m := NewMemory()

	_, err := m.LatestHand("tbl_1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.CreateHand(testHand("hand_1", "tbl_1")))
	require.NoError(t, m.CreateHand(testHand("hand_2", "tbl_1")))

	latest, err := m.LatestHand("tbl_1")
	require.NoError(t, err)
	assert.Equal(t, "hand_2", latest.ID)
}

func TestMemoryActions(t *testing.T) {
	m := NewMemory()

	recs, err := m.ActionsForHand("hand_1")
	require.NoError(t, err)
	assert.Empty(t, recs)

	for i, kind := range []engine.ActionKind{engine.ActionBet, engine.ActionCall} {
		require.NoError(t, m.AppendAction(&engine.ActionRecord{
			HandID: "hand_1",
			SeatNo: i + 1,
			Action: kind,
			Street: engine.StreetPreflop,
		}))
	}

	recs, err = m.ActionsForHand("hand_1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, engine.ActionBet, recs[0].Action)
	assert.Equal(t, engine.ActionCall, recs[1].Action)
}
