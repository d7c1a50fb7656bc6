package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/bodgit/shades"
	"github.com/bodgit/shades/tile"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Sample reads the value of every cell from m in row-major order. The cell
// size is taken from the width of m and one pixel at the centre of each cell
// is read; the result is its blue channel, which may be outside the range of
// valid shades.
func Sample(m image.Image) ([]uint8, error) {
	b := m.Bounds()

	size := tile.Size(b.Dx())
	if size == 0 {
		return nil, fmt.Errorf("width %d is less than %d: %w", b.Dx(), shades.GridSize, shades.ErrInvalidImage)
	}

	samples := make([]uint8, 0, shades.NumCells)
	for row := 0; row < shades.GridSize; row++ {
		for col := 0; col < shades.GridSize; col++ {
			p := tile.Center(row, col, size).Add(b.Min)
			if !p.In(b) {
				return nil, fmt.Errorf("height %d is too short for width %d: %w", b.Dy(), b.Dx(), shades.ErrInvalidImage)
			}
			c := color.NRGBAModel.Convert(m.At(p.X, p.Y)).(color.NRGBA)
			samples = append(samples, c.B)
		}
	}

	return samples, nil
}

// Decode reads an image from r and returns its sampled cell values.
func Decode(r io.Reader) ([]uint8, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, shades.ErrInvalidImage)
	}
	return Sample(m)
}

// DecodeMessage reads an image from r and recovers the message hidden in it
// using key. If d is nil the default Decoder settings are used.
func DecodeMessage(r io.Reader, key string, d *shades.Decoder) (string, error) {
	samples, err := Decode(r)
	if err != nil {
		return "", err
	}
	if d == nil {
		d = new(shades.Decoder)
	}
	return d.Decode(samples, key)
}
