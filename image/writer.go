package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"

	"github.com/bodgit/shades"
	"github.com/bodgit/shades/tile"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func shade(v uint8) color.NRGBA {
	return color.NRGBA{0, 0, v, 0xff}
}

// palette is fully transparent followed by every valid shade, enough to
// hold any grid without dithering
func palette() color.Palette {
	p := make(color.Palette, 0, shades.MaxShade-shades.MinShade+2)
	p = append(p, color.NRGBA{})
	for v := shades.MinShade; v <= shades.MaxShade; v++ {
		p = append(p, shade(uint8(v)))
	}
	return p
}

// Render draws g as a square image width pixels wide.
func Render(g *shades.Grid, width int) (*image.NRGBA, error) {
	size := tile.Size(width)
	if size == 0 {
		return nil, fmt.Errorf("width %d is less than %d: %w", width, shades.GridSize, shades.ErrInvalidImage)
	}

	m := image.NewNRGBA(image.Rect(0, 0, width, width))
	for row := 0; row < shades.GridSize; row++ {
		for col := 0; col < shades.GridSize; col++ {
			draw.Draw(m, tile.Bounds(row, col, size), image.NewUniform(shade(g.At(row, col))), image.Point{}, draw.Src)
		}
	}

	return m, nil
}

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(m *image.NRGBA, f Format) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(e.w, m)
	case GIF:
		b := m.Bounds()
		pm := image.NewPaletted(b, palette())
		draw.Draw(pm, b, m, b.Min, draw.Src)
		return gif.Encode(e.w, pm, &gif.Options{NumColors: len(pm.Palette)})
	case BMP:
		return bmp.Encode(e.w, m)
	case TIFF:
		return tiff.Encode(e.w, m, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("%w: %v", errUnknownFormat, f)
	}
}

// Encode writes the Grid g to w as an image. If o is nil the image is
// DefaultWidth pixels wide and in PNG format.
func Encode(w io.Writer, g *shades.Grid, o *Options) error {
	m, err := Render(g, o.width())
	if err != nil {
		return err
	}

	e := encoder{w: w}

	return e.encode(m, o.format())
}

// EncodeMessage hides message in an image written to w using key.
func EncodeMessage(w io.Writer, message, key string, o *Options) error {
	g, err := shades.Encode(message, key)
	if err != nil {
		return err
	}
	return Encode(w, g, o)
}
