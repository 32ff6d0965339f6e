package handid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	id := New(PrefixHand)
	assert.True(t, strings.HasPrefix(id, "hand_"))
	assert.Len(t, id, len("hand_")+26)
	assert.NoError(t, Validate(id, PrefixHand))
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New(PrefixTable)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewTimeOrdered(t *testing.T) {
	// UUIDv7 payloads from the same process sort at or after earlier ones.
	a := New(PrefixHand)
	b := New(PrefixHand)
	assert.LessOrEqual(t, a[:len("hand_")+8], b[:len("hand_")+8])
}

func TestValidate(t *testing.T) {
	id := New(PrefixSeat)
	assert.NoError(t, Validate(id, PrefixSeat))
	assert.Error(t, Validate(id, PrefixTable), "wrong prefix")
	assert.Error(t, Validate("seat_short", PrefixSeat))
	assert.Error(t, Validate("seat_"+strings.Repeat("u", 26), PrefixSeat), "u is not in the alphabet")
	assert.Error(t, Validate("seat_"+strings.Repeat("z", 26), PrefixSeat), "payload overflows 128 bits")
}
