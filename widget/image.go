package widget

import (
	"image"

	"gioui.org/op/paint"
)

// CachedImage is a cacheable image operation.
type CachedImage paint.ImageOp

// Changer can report that it has changed since the last call.
type Changer interface {
	Changed() bool
}

// ToNRGBA can render an image.NRGBA image.
type ToNRGBA interface {
	ToNRGBA() *image.NRGBA
}

// Cache the image if it is not already.
//
// The first call computes the image operation, subsequent calls noop
// unless src implements Changer and reports a change.
//
// If src implements ToNRGBA, the *image.NRGBA is used to compute the
// operation. This is an optimization since Gio has a fast-path for
// image.NRGBA images.
func (img *CachedImage) Cache(src image.Image) {
	if img == nil || src == nil {
		return
	}
	if nrgba, ok := src.(ToNRGBA); ok {
		src = nrgba.ToNRGBA()
	}
	changed := false
	if changer, ok := src.(Changer); ok {
		changed = changer.Changed()
	}
	if changed || paint.ImageOp(*img) == (paint.ImageOp{}) {
		*img = CachedImage(paint.NewImageOp(src))
	}
}

// Op returns the concrete image operation.
func (img CachedImage) Op() paint.ImageOp {
	return paint.ImageOp(img)
}

// Size reports the dimensions of the cached image in pixels, or the zero
// point if nothing has been cached yet.
func (img CachedImage) Size() image.Point {
	if paint.ImageOp(img) == (paint.ImageOp{}) {
		return image.Point{}
	}
	return img.Op().Size()
}
