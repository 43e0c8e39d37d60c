// Package raster executes threepatch blit operations in software.
//
// It stands in for a GPU rasterizer where none is available: tests and
// headless tools can stretch an image into plain memory and inspect the
// pixels. Bands are filtered with bilinear interpolation.
package raster

import (
	"image"
	"math"

	"gioui.org/f32"
	"golang.org/x/image/draw"

	"git.sr.ht/~gioverse/threepatch"
)

// Blit executes the operations in order onto dst, scaling each source
// band with bilinear filtering. Operation rectangles are interpreted
// relative to the origin of their respective image.
func Blit(dst draw.Image, src image.Image, ops []threepatch.Op) {
	for _, op := range ops {
		draw.BiLinear.Scale(
			dst,
			rounded(op.Dst).Add(dst.Bounds().Min),
			src,
			rounded(op.Src).Add(src.Bounds().Min),
			draw.Over,
			nil,
		)
	}
}

// Render slices src with the given center ratio and draws it into a
// fresh image of the given size. Degenerate input (nil image, empty
// size, ratio outside [0, 1)) yields a fully transparent image.
func Render(src image.Image, size image.Point, ratio float32) *image.NRGBA {
	if size.X < 0 || size.Y < 0 {
		size = image.Point{}
	}
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	if src == nil {
		return dst
	}
	b := src.Bounds()
	ops := threepatch.Compose(
		float32(b.Dx()), float32(b.Dy()),
		float32(size.X), float32(size.Y),
		ratio,
	)
	Blit(dst, src, ops)
	return dst
}

// rounded converts a band rectangle to integer pixels. Adjacent bands
// share exact float edges, so rounding cannot open a seam between them.
func rounded(r f32.Rectangle) image.Rectangle {
	return image.Rect(
		int(math.Round(float64(r.Min.X))),
		int(math.Round(float64(r.Min.Y))),
		int(math.Round(float64(r.Max.X))),
		int(math.Round(float64(r.Max.Y))),
	)
}
