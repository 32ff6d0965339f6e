package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	codes := []string{"As", "Kh", "Qd", "Jc", "Ts", "9h", "2c"}
	for _, code := range codes {
		c, err := Parse(code)
		require.NoError(t, err, code)
		assert.Equal(t, code, c.Code())
	}
}

func TestParseInvalid(t *testing.T) {
	for _, code := range []string{"", "A", "Asx", "1s", "Ax", "as"} {
		_, err := Parse(code)
		assert.Error(t, err, "code %q should not parse", code)
	}
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "A♠", MustParse("As").String())
	assert.Equal(t, "T♦", MustParse("Td").String())
	assert.Equal(t, "2♣", MustParse("2c").String())
}

func TestCardJSON(t *testing.T) {
	card := MustParse("Qh")

	data, err := json.Marshal(card)
	require.NoError(t, err)
	assert.Equal(t, `"Qh"`, string(data))

	var decoded Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, card, decoded)

	var bad Card
	assert.Error(t, json.Unmarshal([]byte(`"Zz"`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestCardSliceJSON(t *testing.T) {
	cards := MustParseAll("As", "Kh", "7d")

	data, err := json.Marshal(cards)
	require.NoError(t, err)
	assert.Equal(t, `["As","Kh","7d"]`, string(data))

	var decoded []Card
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cards, decoded)
}

func TestParseAll(t *testing.T) {
	cards, err := ParseAll("As", "Kd")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	_, err = ParseAll("As", "bogus")
	assert.Error(t, err)
}
