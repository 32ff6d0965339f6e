// Package handid generates sortable, prefix-tagged identifiers for tables,
// seats, and hands: a UUIDv7 payload encoded as 26 characters of Crockford
// base32, e.g. "hand_01h455vb4pex5vsknk084sn02q".
package handid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Well-known prefixes
const (
	PrefixTable = "tbl"
	PrefixSeat  = "seat"
	PrefixHand  = "hand"
)

// New returns a fresh identifier with the given prefix
func New(prefix string) string {
	return prefix + "_" + encodeBase32(newUUIDv7())
}

// newUUIDv7 builds a 128-bit UUIDv7: 48-bit millisecond timestamp, version
// and variant bits, the rest random. Time-ordered IDs keep hand files
// listable in creation order.
func newUUIDv7() [16]byte {
	var uuid [16]byte

	now := time.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if _, err := rand.Read(uuid[6:]); err != nil {
		panic("handid: failed to read random bytes: " + err.Error())
	}

	uuid[6] = (uuid[6] & 0x0f) | 0x70 // version 7
	uuid[8] = (uuid[8] & 0x3f) | 0x80 // variant 10

	return uuid
}

// encodeBase32 encodes 128 bits as 26 base32 characters, 5 bits at a time
func encodeBase32(data [16]byte) string {
	var b strings.Builder
	b.Grow(26)

	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		b.WriteByte(alphabet[value])
	}

	return b.String()
}

// Validate checks that an ID carries the expected prefix and a well-formed
// payload.
func Validate(id, prefix string) error {
	payload, ok := strings.CutPrefix(id, prefix+"_")
	if !ok {
		return fmt.Errorf("id %q does not have prefix %q", id, prefix)
	}
	if len(payload) != 26 {
		return fmt.Errorf("id payload must be 26 characters, got %d", len(payload))
	}
	if payload[0] > '7' {
		return fmt.Errorf("id payload overflows 128 bits")
	}
	for i := 0; i < len(payload); i++ {
		if !strings.ContainsRune(alphabet, rune(payload[i])) {
			return fmt.Errorf("invalid character %q at position %d", payload[i], i)
		}
	}
	return nil
}
