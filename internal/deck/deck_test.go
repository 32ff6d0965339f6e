package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShuffledIsFullDeck(t *testing.T) {
	d := NewShuffled(NewRNG(1))
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool, 52)
	for _, c := range d {
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestNewShuffledDeterministic(t *testing.T) {
	a := NewShuffled(NewRNG(42))
	b := NewShuffled(NewRNG(42))
	assert.Equal(t, a, b)

	c := NewShuffled(NewRNG(43))
	assert.NotEqual(t, a, c)
}

func TestDrawFromEnd(t *testing.T) {
	d := Deck(MustParseAll("2c", "Kh", "As"))

	card, ok := d.Draw()
	require.True(t, ok)
	assert.Equal(t, MustParse("As"), card)
	assert.Equal(t, 2, d.Remaining())

	cards, ok := d.DrawN(2)
	require.True(t, ok)
	assert.Equal(t, MustParseAll("Kh", "2c"), cards)
	assert.Equal(t, 0, d.Remaining())

	_, ok = d.Draw()
	assert.False(t, ok)
}

func TestDrawNShortDeck(t *testing.T) {
	d := Deck(MustParseAll("As"))
	_, ok := d.DrawN(2)
	assert.False(t, ok)
	assert.Equal(t, 1, d.Remaining(), "failed draw leaves the deck untouched")
}
