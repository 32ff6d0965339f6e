// Package evaluator ranks poker hands. It evaluates 5-card combinations
// into comparable Strength values and finds the best 5-card hand out of up
// to 7 cards by brute-force enumeration (21 subsets at showdown). The
// Strength representation is deliberately simple so a faster evaluator can
// be swapped in behind the same comparisons later.
package evaluator

import (
	"fmt"
	"sort"

	"github.com/hearthside/holdem/internal/deck"
)

// Category is the hand class, ordered weakest to strongest
type Category int

const (
	HighCard Category = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns a human-readable category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Strength is a comparable hand strength: the category first, then rank
// values that break ties within the category in descending priority.
type Strength struct {
	Category Category `json:"category"`
	Tiebreak []int    `json:"tiebreak"`
}

// Compare returns 1 if a beats b, -1 if b beats a, 0 on an exact tie.
// Missing trailing tiebreak elements compare as 0.
func Compare(a, b Strength) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}

	n := len(a.Tiebreak)
	if len(b.Tiebreak) > n {
		n = len(b.Tiebreak)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a.Tiebreak) {
			av = a.Tiebreak[i]
		}
		if i < len(b.Tiebreak) {
			bv = b.Tiebreak[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Rank5 evaluates exactly five cards
func Rank5(cards [5]deck.Card) Strength {
	return rankCards(cards[:])
}

// BestOfUpTo7 returns the strongest 5-card hand contained in the supplied
// cards. With fewer than five cards it ranks what is there (straights and
// flushes need all five).
func BestOfUpTo7(cards []deck.Card) Strength {
	if len(cards) <= 5 {
		return rankCards(cards)
	}

	best := Strength{Category: HighCard}
	first := true
	forEachCombination(cards, 5, func(combo []deck.Card) {
		s := rankCards(combo)
		if first || Compare(s, best) > 0 {
			best = s
			first = false
		}
	})
	return best
}

// rankGroup is a set of cards of one rank
type rankGroup struct {
	rank  int
	count int
}

func rankCards(cards []deck.Card) Strength {
	groups := groupRanks(cards)

	if len(cards) == 5 {
		flush := true
		for _, c := range cards[1:] {
			if c.Suit != cards[0].Suit {
				flush = false
				break
			}
		}
		straightHigh := straightHighRank(cards)

		switch {
		case flush && straightHigh > 0:
			return Strength{StraightFlush, []int{straightHigh}}
		case groups[0].count == 4:
			return Strength{FourOfAKind, []int{groups[0].rank, groups[1].rank}}
		case groups[0].count == 3 && groups[1].count == 2:
			return Strength{FullHouse, []int{groups[0].rank, groups[1].rank}}
		case flush:
			return Strength{Flush, groupTiebreak(groups)}
		case straightHigh > 0:
			return Strength{Straight, []int{straightHigh}}
		}
	}

	switch {
	case groups[0].count == 4:
		return Strength{FourOfAKind, groupTiebreak(groups)}
	case groups[0].count == 3:
		return Strength{ThreeOfAKind, groupTiebreak(groups)}
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		return Strength{TwoPair, groupTiebreak(groups)}
	case groups[0].count == 2:
		return Strength{Pair, groupTiebreak(groups)}
	default:
		return Strength{HighCard, groupTiebreak(groups)}
	}
}

// groupRanks buckets cards by rank, ordered by count then rank descending
func groupRanks(cards []deck.Card) []rankGroup {
	counts := make(map[int]int, len(cards))
	for _, c := range cards {
		counts[int(c.Rank)]++
	}

	groups := make([]rankGroup, 0, len(counts))
	for rank, count := range counts {
		groups = append(groups, rankGroup{rank: rank, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

// groupTiebreak lists group ranks in priority order
func groupTiebreak(groups []rankGroup) []int {
	tb := make([]int, len(groups))
	for i, g := range groups {
		tb[i] = g.rank
	}
	return tb
}

// straightHighRank returns the high card of a 5-card straight, or 0.
// The wheel (A-2-3-4-5) counts as a 5-high straight.
func straightHighRank(cards []deck.Card) int {
	ranks := make([]int, len(cards))
	for i, c := range cards {
		ranks[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return 0 // paired, no straight
		}
	}

	if ranks[0]-ranks[4] == 4 {
		return ranks[0]
	}
	// wheel: A,5,4,3,2
	if ranks[0] == int(deck.Ace) && ranks[1] == 5 && ranks[4] == 2 {
		return 5
	}
	return 0
}

// forEachCombination calls fn with every k-card subset of cards. The slice
// passed to fn is reused between calls.
func forEachCombination(cards []deck.Card, k int, fn func([]deck.Card)) {
	combo := make([]deck.Card, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(combo)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}

// Describe returns a display string for a strength, e.g. "Full House,
// kings over nines". Informational only; never used for chip movement.
func Describe(s Strength) string {
	tb := func(i int) string {
		if i < len(s.Tiebreak) {
			return rankWord(s.Tiebreak[i])
		}
		return "?"
	}
	tbs := func(i int) string { return plural(tb(i)) }

	switch s.Category {
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", tb(0))
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", tbs(0))
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", tbs(0), tbs(1))
	case Flush:
		return fmt.Sprintf("Flush, %s high", tb(0))
	case Straight:
		return fmt.Sprintf("Straight, %s high", tb(0))
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", tbs(0))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", tbs(0), tbs(1))
	case Pair:
		return fmt.Sprintf("Pair of %s", tbs(0))
	default:
		return fmt.Sprintf("High Card, %s", tb(0))
	}
}

// plural forms a rank word's plural, "six" becoming "sixes"
func plural(word string) string {
	if word == "six" {
		return "sixes"
	}
	return word + "s"
}

func rankWord(v int) string {
	switch deck.Rank(v) {
	case deck.Two:
		return "two"
	case deck.Three:
		return "three"
	case deck.Four:
		return "four"
	case deck.Five:
		return "five"
	case deck.Six:
		return "six"
	case deck.Seven:
		return "seven"
	case deck.Eight:
		return "eight"
	case deck.Nine:
		return "nine"
	case deck.Ten:
		return "ten"
	case deck.Jack:
		return "jack"
	case deck.Queen:
		return "queen"
	case deck.King:
		return "king"
	case deck.Ace:
		return "ace"
	default:
		return "?"
	}
}
