/*
Package image implements rendering a shades grid as a raster image and
sampling a grid back out of one.

Each of the 88 by 88 cells becomes a solid square whose blue channel holds the
cell value; red and green are always zero. When the image width is not a
multiple of 88 the pixels past the last cell are left fully transparent. On
the way back a single pixel at the centre of each cell is read, so an image
that has been resized by a whole factor or lightly re-encoded still decodes.
Only lossless formats are written: PNG, GIF, BMP and TIFF. Any format
registered with the standard library image package, plus BMP, TIFF and WebP,
can be read.
*/
package image

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultWidth matches the canvas size used by earlier encoders, leaving a
// ten pixel transparent margin after 88 cells of 5 pixels.
const DefaultWidth = 450

// Format is an output image format.
type Format int

// Supported output formats
const (
	PNG Format = iota
	GIF
	BMP
	TIFF
)

var formatNames = map[Format]string{
	PNG:  "png",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tiff",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

var errUnknownFormat = errors.New("image: unknown format")

// ParseFormat returns the Format with the given name, such as "png".
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	if s == "tif" {
		s = "tiff"
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return PNG, fmt.Errorf("%w: %q", errUnknownFormat, s)
}

// FormatFromExtension returns the Format matching the extension of file.
func FormatFromExtension(file string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(file), "."))
}

// Options are the encoding parameters.
type Options struct {
	// Width is the width and height of the image in pixels. It must be at
	// least 88; zero means DefaultWidth.
	Width int
	// Format is the output format.
	Format Format
}

func (o *Options) width() int {
	if o == nil || o.Width == 0 {
		return DefaultWidth
	}
	return o.Width
}

func (o *Options) format() Format {
	if o == nil {
		return PNG
	}
	return o.Format
}
