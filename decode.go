package shades

import (
	"fmt"
	"io/ioutil"
	"log"
	"unicode/utf8"
)

// Decoder recovers messages from sampled cell values.
type Decoder struct {
	// Strict makes any sample outside [MinShade, MaxShade] fail the decode
	// with ErrInvalidShade. By default such samples are dropped from the
	// sequence and every later cell shifts down by one, which is how
	// existing decoders of the format behave.
	Strict bool

	// Logger receives a line for every dropped sample. A nil Logger
	// discards them.
	Logger *log.Logger
}

func (d *Decoder) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return d.Logger
}

// retain returns the in-range samples in order.
func (d *Decoder) retain(samples []uint8) ([]uint8, error) {
	logger := d.logger()
	retained := make([]uint8, 0, len(samples))
	for i, v := range samples {
		if v >= MinShade {
			retained = append(retained, v)
			continue
		}
		if d.Strict {
			return nil, fmt.Errorf("cell (%d, %d) has value %d: %w", i/GridSize, i%GridSize, v, ErrInvalidShade)
		}
		logger.Printf("invalid blue value detected at (%d, %d): %d\n", i/GridSize, i%GridSize, v)
	}
	return retained, nil
}

func nibble(v uint8) (uint8, bool) {
	n := v - MinShade
	return n, v >= MinShade && n < nibbleRange
}

func readLength(s []uint8) (int, error) {
	if len(s) < HeaderCells {
		return 0, fmt.Errorf("only %d usable cells: %w", len(s), ErrInvalidLength)
	}

	var length int
	for _, v := range s[:HeaderCells] {
		n, ok := nibble(v)
		if !ok {
			return 0, fmt.Errorf("header cell value %d: %w", v, ErrInvalidLength)
		}
		length = length<<4 | int(n)
	}

	if length > MaxPayload {
		return 0, fmt.Errorf("length %d exceeds %d: %w", length, MaxPayload, ErrInvalidLength)
	}

	return length, nil
}

// Decode recovers the message hidden in samples using key. The samples are
// cell values in row-major order, such as those returned by Grid.Samples or
// read from an image; only as many as the header declares are used.
func (d *Decoder) Decode(samples []uint8, key string) (string, error) {
	k, err := newKey(key)
	if err != nil {
		return "", err
	}

	s, err := d.retain(samples)
	if err != nil {
		return "", err
	}

	length, err := readLength(s)
	if err != nil {
		return "", err
	}

	b := make([]byte, length)
	for i := range b {
		j := HeaderCells + i<<1
		if j+1 >= len(s) {
			return "", fmt.Errorf("byte %d of %d is missing: %w", i, length, ErrInvalidShade)
		}

		hi, ok1 := nibble(s[j])
		lo, ok2 := nibble(s[j+1])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("byte %d has values %d, %d: %w", i, s[j], s[j+1], ErrInvalidShade)
		}

		kh, kl := k.nibbles(i)
		b[i] = (hi+nibbleRange-kh)%nibbleRange<<4 | (lo+nibbleRange-kl)%nibbleRange
	}

	if !utf8.Valid(b) {
		return "", ErrTextDecode
	}

	return string(b), nil
}

// Decode recovers the message hidden in samples using key with the default
// Decoder settings.
func Decode(samples []uint8, key string) (string, error) {
	var d Decoder
	return d.Decode(samples, key)
}
