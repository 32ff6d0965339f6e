package deck

import (
	rand "math/rand/v2"
)

// Deck is an order-significant stack of cards. Cards are drawn from the
// end so a deck can be stacked in tests by appending the cards to be dealt
// last-to-first.
type Deck []Card

// NewShuffled returns a full 52-card deck shuffled with the provided RNG
func NewShuffled(rng *rand.Rand) Deck {
	d := make(Deck, 0, 52)
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d = append(d, NewCard(rank, suit))
		}
	}

	// Fisher-Yates
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}

	return d
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, bool) {
	if len(*d) == 0 {
		return Card{}, false
	}
	card := (*d)[len(*d)-1]
	*d = (*d)[:len(*d)-1]
	return card, true
}

// DrawN removes and returns the top n cards, or false if the deck is short
func (d *Deck) DrawN(n int) ([]Card, bool) {
	if n > len(*d) {
		return nil, false
	}
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		card, _ := d.Draw()
		cards = append(cards, card)
	}
	return cards, true
}

// Remaining returns the number of undrawn cards
func (d Deck) Remaining() int {
	return len(d)
}

const goldenRatio64 = 0x9e3779b97f4a7c15

// NewRNG returns a *rand.Rand seeded deterministically from a single int64.
// Centralises how the two 64-bit seeds required by rand/v2 are derived so
// every call site gets reproducible shuffles.
func NewRNG(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
