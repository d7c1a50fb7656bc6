package shades

import "fmt"

func upperNibble(b byte) byte {
	return b >> 4 & 0x0f
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

type encoder struct {
	g   *Grid
	i   int
	key key
}

func (e *encoder) put(v uint8) {
	if e.i < NumCells {
		e.g[e.i] = MinShade + v
	}
	e.i++
}

func (e *encoder) writeHeader(length int) {
	hi, lo := byte(length>>8), byte(length)
	e.put(upperNibble(hi))
	e.put(lowerNibble(hi))
	e.put(upperNibble(lo))
	e.put(lowerNibble(lo))
}

func (e *encoder) writePayload(b []byte) {
	for i, c := range b {
		kh, kl := e.key.nibbles(i)
		e.put((upperNibble(c) + kh) % nibbleRange)
		e.put((lowerNibble(c) + kl) % nibbleRange)
	}
}

func (e *encoder) writePadding() {
	h := e.key.hash()
	for p := 0; e.i < NumCells; p++ {
		e.put(padding(h, p))
	}
}

// Encode hides message in a new Grid using key.
//
// The message is encoded as UTF-8 and may be up to MaxPayload bytes long.
// A message of exactly MaxPayload bytes needs two more cells than the grid
// has, so like existing artifacts of the format its final byte is not
// stored and the grid will not decode; messages of up to Capacity bytes
// always round-trip.
func Encode(message, key string) (*Grid, error) {
	k, err := newKey(key)
	if err != nil {
		return nil, err
	}

	b := []byte(message)
	if len(b) > MaxPayload {
		return nil, fmt.Errorf("%d bytes, maximum %d allowed: %w", len(b), MaxPayload, ErrPayloadTooLarge)
	}

	g := new(Grid)
	for i := range g {
		g[i] = MinShade
	}

	e := encoder{g: g, key: k}
	e.writeHeader(len(b))
	e.writePayload(b)
	e.writePadding()

	return g, nil
}
