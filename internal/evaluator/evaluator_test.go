package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthside/holdem/internal/deck"
)

func rank5(t *testing.T, codes ...string) Strength {
	t.Helper()
	cards := deck.MustParseAll(codes...)
	require.Len(t, cards, 5)
	return Rank5([5]deck.Card(cards))
}

func TestRank5Categories(t *testing.T) {
	tests := []struct {
		name     string
		codes    []string
		category Category
		tiebreak []int
	}{
		{"royal flush", []string{"As", "Ks", "Qs", "Js", "Ts"}, StraightFlush, []int{14}},
		{"steel wheel", []string{"Ah", "2h", "3h", "4h", "5h"}, StraightFlush, []int{5}},
		{"four of a kind", []string{"9s", "9h", "9d", "9c", "Ks"}, FourOfAKind, []int{9, 13}},
		{"full house", []string{"Ks", "Kh", "Kd", "9s", "9h"}, FullHouse, []int{13, 9}},
		{"flush", []string{"Ks", "Js", "9s", "5s", "2s"}, Flush, []int{13, 11, 9, 5, 2}},
		{"straight", []string{"9s", "8h", "7d", "6c", "5s"}, Straight, []int{9}},
		{"wheel", []string{"As", "2h", "3d", "4c", "5s"}, Straight, []int{5}},
		{"three of a kind", []string{"7s", "7h", "7d", "Ks", "2h"}, ThreeOfAKind, []int{7, 13, 2}},
		{"two pair", []string{"Js", "Jh", "4d", "4c", "9s"}, TwoPair, []int{11, 4, 9}},
		{"pair", []string{"6s", "6h", "Ad", "9c", "3s"}, Pair, []int{6, 14, 9, 3}},
		{"high card", []string{"As", "Jh", "9d", "6c", "3s"}, HighCard, []int{14, 11, 9, 6, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rank5(t, tt.codes...)
			assert.Equal(t, tt.category, s.Category)
			assert.Equal(t, tt.tiebreak, s.Tiebreak)
		})
	}
}

func TestCompareCategoryOrdering(t *testing.T) {
	ordered := []Strength{
		rank5(t, "As", "Jh", "9d", "6c", "3s"), // high card
		rank5(t, "6s", "6h", "Ad", "9c", "3s"), // pair
		rank5(t, "Js", "Jh", "4d", "4c", "9s"), // two pair
		rank5(t, "7s", "7h", "7d", "Ks", "2h"), // trips
		rank5(t, "9s", "8h", "7d", "6c", "5s"), // straight
		rank5(t, "Ks", "Js", "9s", "5s", "2s"), // flush
		rank5(t, "Ks", "Kh", "Kd", "9s", "9h"), // full house
		rank5(t, "9s", "9h", "9d", "9c", "Ks"), // quads
		rank5(t, "As", "Ks", "Qs", "Js", "Ts"), // straight flush
	}

	for i := 1; i < len(ordered); i++ {
		assert.Equal(t, 1, Compare(ordered[i], ordered[i-1]),
			"category %s must beat %s", ordered[i].Category, ordered[i-1].Category)
		assert.Equal(t, -1, Compare(ordered[i-1], ordered[i]))
	}
}

func TestCompareTiebreaks(t *testing.T) {
	acesUp := rank5(t, "As", "Ah", "Kd", "9c", "3s")
	kingsUp := rank5(t, "Ks", "Kh", "Ad", "9c", "3s")
	assert.Equal(t, 1, Compare(acesUp, kingsUp), "higher pair wins")

	kicker := rank5(t, "As", "Ah", "Qd", "9c", "3s")
	assert.Equal(t, 1, Compare(acesUp, kicker), "king kicker beats queen kicker")

	tie := rank5(t, "Ad", "Ac", "Kh", "9s", "3d")
	assert.Equal(t, 0, Compare(acesUp, tie), "suits never break ties")
}

func TestCompareShortTiebreak(t *testing.T) {
	// Missing trailing elements compare as zero.
	a := Strength{Pair, []int{6, 14}}
	b := Strength{Pair, []int{6}}
	assert.Equal(t, 1, Compare(a, b))
	assert.Equal(t, -1, Compare(b, a))
	assert.Equal(t, 0, Compare(b, Strength{Pair, []int{6, 0}}))
}

func TestWheelLosesToSixHigh(t *testing.T) {
	wheel := rank5(t, "As", "2h", "3d", "4c", "5s")
	sixHigh := rank5(t, "2s", "3h", "4d", "5c", "6s")
	assert.Equal(t, 1, Compare(sixHigh, wheel))
}

func TestBestOfUpTo7(t *testing.T) {
	// Two hearts in hand, three on board: the flush beats the board pair.
	cards := deck.MustParseAll("Ah", "Kh", "9h", "5h", "2h", "9s", "9d")
	s := BestOfUpTo7(cards)
	assert.Equal(t, Flush, s.Category)
	assert.Equal(t, []int{14, 13, 9, 5, 2}, s.Tiebreak)
}

func TestBestOfUpTo7PrefersStraightOverTrips(t *testing.T) {
	cards := deck.MustParseAll("8s", "8h", "8d", "7c", "6s", "5h", "4d")
	s := BestOfUpTo7(cards)
	assert.Equal(t, Straight, s.Category)
	assert.Equal(t, []int{8}, s.Tiebreak)
}

func TestBestOfFewerThanFive(t *testing.T) {
	s := BestOfUpTo7(deck.MustParseAll("As", "Ah"))
	assert.Equal(t, Pair, s.Category)
	assert.Equal(t, []int{14}, s.Tiebreak)

	// Five suited-and-connected cards only count as straight or flush with
	// all five present; two of them are just high cards.
	s = BestOfUpTo7(deck.MustParseAll("9s", "8s"))
	assert.Equal(t, HighCard, s.Category)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		codes []string
		want  string
	}{
		{[]string{"As", "Ks", "Qs", "Js", "Ts"}, "Straight Flush, ace high"},
		{[]string{"9s", "9h", "9d", "9c", "Ks"}, "Four of a Kind, nines"},
		{[]string{"Ks", "Kh", "Kd", "9s", "9h"}, "Full House, kings over nines"},
		{[]string{"Ks", "Js", "9s", "5s", "2s"}, "Flush, king high"},
		{[]string{"9s", "8h", "7d", "6c", "5s"}, "Straight, nine high"},
		{[]string{"7s", "7h", "7d", "Ks", "2h"}, "Three of a Kind, sevens"},
		{[]string{"Js", "Jh", "4d", "4c", "9s"}, "Two Pair, jacks and fours"},
		{[]string{"6s", "6h", "Ad", "9c", "3s"}, "Pair of sixes"},
		{[]string{"As", "Jh", "9d", "6c", "3s"}, "High Card, ace"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(rank5(t, tt.codes...)))
	}
}
