// Package widget provides the Gio widget plumbing around the threepatch
// compositor: a stretchable image style and an image operation cache.
package widget

import (
	"fmt"
	"image"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"

	"git.sr.ht/~gioverse/threepatch"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// StretchStyle renders an image into the space given to it, keeping the
// left and right edges of the artwork at their natural proportions while
// the center band absorbs all horizontal stretching or cropping.
//
// StretchStyle holds no internal state: it recomposes from the current
// image and target size on every layout pass. An empty Surface lays out
// the resolved size without painting anything, which is the expected
// behaviour while an asynchronous image load is still in flight.
type StretchStyle struct {
	// Surface is the image to slice and paint.
	Surface paint.ImageOp
	// Ratio is the fraction of the source width that may stretch,
	// in [0, 1).
	Ratio float32
	// Width and Height optionally fix the target size. Zero values
	// defer to the layout constraints, falling back to the image's
	// intrinsic size on unconstrained axes.
	Width, Height unit.Value
}

// Stretch constructs a StretchStyle for the image operation. The center
// ratio is validated here, once, rather than on every paint.
func Stretch(src paint.ImageOp, ratio float32) (StretchStyle, error) {
	if err := threepatch.ValidRatio(ratio); err != nil {
		return StretchStyle{}, fmt.Errorf("stretch: %w", err)
	}
	return StretchStyle{
		Surface: src,
		Ratio:   ratio,
	}, nil
}

// Layout the stretched image. The target size is resolved in device
// pixels, composed into band blit operations, and each band painted in
// order.
func (s StretchStyle) Layout(gtx C) D {
	var (
		intrinsic = s.Surface.Size()
		target    = s.resolve(gtx, intrinsic)
	)
	ops := threepatch.Compose(
		float32(intrinsic.X), float32(intrinsic.Y),
		float32(target.X), float32(target.Y),
		s.Ratio,
	)
	for _, band := range ops {
		blit(gtx, s.Surface, band)
	}
	return D{Size: target}
}

// resolve computes the target size in pixels. A configured fixed size
// wins, converted through the device pixel ratio. Otherwise the minimum
// constraint is used, with the image's intrinsic size standing in on
// axes the caller left unconstrained. The result always honors the
// incoming constraints.
func (s StretchStyle) resolve(gtx C, intrinsic image.Point) image.Point {
	var target image.Point
	if s.Width.V > 0 {
		target.X = gtx.Px(s.Width)
	} else if target.X = gtx.Constraints.Min.X; target.X == 0 {
		target.X = intrinsic.X
	}
	if s.Height.V > 0 {
		target.Y = gtx.Px(s.Height)
	} else if target.Y = gtx.Constraints.Min.Y; target.Y == 0 {
		target.Y = intrinsic.Y
	}
	return gtx.Constraints.Constrain(target)
}

// blit paints a single band: clip to the destination rectangle and map
// the source rectangle onto it with an affine transform.
func blit(gtx C, src paint.ImageOp, band threepatch.Op) {
	defer op.Save(gtx.Ops).Load()
	clip.Rect(rounded(band.Dst)).Add(gtx.Ops)
	tr := f32.Affine2D{}.
		Offset(band.Src.Min.Mul(-1)).
		Scale(f32.Point{}, f32.Point{
			X: band.Dst.Dx() / band.Src.Dx(),
			Y: band.Dst.Dy() / band.Src.Dy(),
		}).
		Offset(band.Dst.Min)
	op.Affine(tr).Add(gtx.Ops)
	src.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
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
