package shades

import "unicode/utf16"

// key holds the UTF-16 code units of a passphrase.
type key []uint16

func newKey(s string) (key, error) {
	if s == "" {
		return nil, ErrEmptyKey
	}
	return key(utf16.Encode([]rune(s))), nil
}

// nibbles returns the offsets applied to the high and low nibble of the
// payload byte at position i.
func (k key) nibbles(i int) (uint8, uint8) {
	n := len(k)
	return uint8(k[(i<<1)%n] % nibbleRange), uint8(k[(i<<1+1)%n] % nibbleRange)
}

// hash is a 32-bit rolling hash over the code units, wrapping like a signed
// 32-bit integer.
func (k key) hash() int32 {
	var h int32
	for _, u := range k {
		h = h*31 + int32(u)
	}
	return h
}

// padding returns the offset from MinShade of the padding cell at index for
// a key with the given hash. The sum is not wrapped to 32 bits and the
// remainder keeps the sign of the dividend before the absolute value is
// taken.
func padding(hash int32, index int) uint8 {
	v := (int64(hash) + int64(index)*17) % paddingRange
	if v < 0 {
		v = -v
	}
	return uint8(v)
}
