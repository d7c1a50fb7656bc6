/*
Package tile maps the cells of a shades grid onto square regions of an image.

The grid is 88 by 88 cells laid out row-major from the top-left corner. Every
cell is the same whole number of pixels wide and high; any pixels to the
right of or below the last cell are not part of the grid.
*/
package tile

import (
	"image"

	"github.com/bodgit/shades"
)

// Size returns the side of a cell in pixels for an image width pixels wide.
// A result of zero means the image is too small to hold a grid.
func Size(width int) int {
	if width < 0 {
		return 0
	}
	return width / shades.GridSize
}

// Extent returns the side in pixels of the area covered by cells of the
// given size.
func Extent(size int) int {
	return size * shades.GridSize
}

// Index returns the row-major index of the cell at row and col.
func Index(row, col int) int {
	return row*shades.GridSize + col
}

// Position returns the row and column of the cell at index i.
func Position(i int) (int, int) {
	return i / shades.GridSize, i % shades.GridSize
}

// Bounds returns the pixels covered by the cell at row and col.
func Bounds(row, col, size int) image.Rectangle {
	return image.Rect(col*size, row*size, col*size+size, row*size+size)
}

// Center returns the single pixel sampled for the cell at row and col.
func Center(row, col, size int) image.Point {
	return image.Pt(col*size+size>>1, row*size+size>>1)
}
