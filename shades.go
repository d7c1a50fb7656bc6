/*
Package shades implements a reversible codec that hides a short text message
in a grid of 7744 shades of blue.

The grid is 88 by 88 cells, each holding an intensity between 200 and 255
that ends up as the blue channel of a solid square in an image. The first
four cells hold the 16-bit message length, one nibble per cell. Each message
byte then takes two cells, its high and low nibble each shifted modulo 16 by
a nibble taken from the key. Whatever is left of the grid is filled with
key-derived padding in the full 200 to 255 range.

This is an obfuscation, not encryption. Anyone who knows the format can
recover the length and, with a little effort, the message.
*/
package shades

import "fmt"

const (
	// GridSize is the number of cells along each side of the grid
	GridSize = 88
	// NumCells is the total number of cells in a grid
	NumCells = GridSize * GridSize

	// HeaderCells is the number of cells used by the length header
	HeaderCells = 4
	// MaxPayload is the largest message length, in bytes, the format
	// accepts. It is one byte more than Capacity; see Encode.
	MaxPayload = 3871
	// Capacity is the largest message length, in bytes, whose payload
	// cells all fit in the grid
	Capacity = (NumCells - HeaderCells) >> 1

	// MinShade and MaxShade bound every cell value
	MinShade = 200
	MaxShade = 255

	nibbleRange  = 16
	paddingRange = MaxShade - MinShade + 1
)

// Grid is the canonical representation of an encoded message; NumCells
// intensities stored in row-major order.
type Grid [NumCells]uint8

// At returns the cell value at the given row and column.
func (g *Grid) At(row, col int) uint8 {
	return g[row*GridSize+col]
}

// Set sets the cell value at the given row and column.
func (g *Grid) Set(row, col int, v uint8) {
	g[row*GridSize+col] = v
}

// Row returns the cells of one row. The returned slice shares storage with
// the grid.
func (g *Grid) Row(row int) []uint8 {
	return g[row*GridSize : (row+1)*GridSize]
}

// Samples returns a copy of the cells in row-major order, the same sequence
// an image sampler produces.
func (g *Grid) Samples() []uint8 {
	s := make([]uint8, NumCells)
	copy(s, g[:])
	return s
}

// Validate checks every cell is within [MinShade, MaxShade].
func (g *Grid) Validate() error {
	for i, v := range g {
		if v < MinShade {
			return fmt.Errorf("cell (%d, %d) has value %d: %w", i/GridSize, i%GridSize, v, ErrInvalidShade)
		}
	}
	return nil
}
