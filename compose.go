package threepatch

import "gioui.org/f32"

// Compose computes the ordered blit operations that render a source image
// of srcWidth×srcHeight into a target of dstWidth×dstHeight, stretching
// or cropping only the center band.
//
// The vertical scale factor kh = dstHeight/srcHeight applies uniformly to
// every band. Horizontally, one of three cases applies depending on how
// the target width compares to the uniformly scaled image:
//
//   - stretch: the target is at least as wide as the uniformly scaled
//     image. The side bands keep their uniform scale and all extra width
//     goes to the center band. Three operations.
//   - partial crop: the target is narrower than the uniformly scaled
//     image, but wide enough for both side bands. The center band is kept
//     as two half-slices adjoining the side bands, with a symmetric strip
//     removed from the middle. Four operations.
//   - full crop: the target is too narrow even for the side bands alone.
//     The center vanishes and the sides are uniformly scaled down a
//     second time, vertically centered in the target. Two operations.
//
// Compose is pure and deterministic: identical inputs yield identical
// operation sequences, and the function is safe for concurrent use.
//
// Degenerate input (a non-positive dimension, or a ratio outside [0, 1))
// produces no operations: there is nothing to paint.
func Compose(srcWidth, srcHeight, dstWidth, dstHeight, ratio float32) []Op {
	if srcWidth <= 0 || srcHeight <= 0 || dstWidth <= 0 || dstHeight <= 0 {
		return nil
	}
	if ValidRatio(ratio) != nil {
		return nil
	}

	var (
		kh    = dstHeight / srcHeight
		bands = Split(srcWidth, ratio)

		scaledLeft   = bands.Left * kh
		scaledCenter = bands.Center * kh
		scaledRight  = bands.Right * kh

		// natural is the width of the whole image under uniform scaling.
		natural = scaledLeft + scaledCenter + scaledRight
		// minWidth is the narrowest the target can get while the side
		// bands keep their uniform scale: the center band fully removed.
		minWidth = scaledLeft + scaledRight

		leftSrc  = f32.Rect(0, 0, bands.Left, srcHeight)
		rightSrc = f32.Rect(srcWidth-bands.Right, 0, srcWidth, srcHeight)
	)

	switch {
	case dstWidth >= natural:
		// Stretch: side bands at uniform scale, all extra width to the
		// center band. Exactly tiles the target.
		ops := make([]Op, 0, 3)
		ops = appendOp(ops, leftSrc,
			f32.Rect(0, 0, scaledLeft, dstHeight))
		ops = appendOp(ops,
			f32.Rect(bands.Left, 0, bands.Left+bands.Center, srcHeight),
			f32.Rect(scaledLeft, 0, dstWidth-scaledRight, dstHeight))
		ops = appendOp(ops, rightSrc,
			f32.Rect(dstWidth-scaledRight, 0, dstWidth, dstHeight))
		return ops

	case dstWidth >= minWidth:
		// Partial crop: keep a half-slice of the center band against
		// each side band and discard a symmetric strip from the middle.
		dstCenter := clamp(dstWidth-minWidth, 0, scaledCenter)
		cutSrc := (scaledCenter - dstCenter) / kh
		halfKeep := clamp((bands.Center-cutSrc)/2, 0, bands.Center/2)
		if dstCenter <= 0 || halfKeep <= 0 {
			// Nothing of the center survives: sides only.
			ops := make([]Op, 0, 2)
			ops = appendOp(ops, leftSrc,
				f32.Rect(0, 0, scaledLeft, dstHeight))
			ops = appendOp(ops, rightSrc,
				f32.Rect(dstWidth-scaledRight, 0, dstWidth, dstHeight))
			return ops
		}
		seam := scaledLeft + dstCenter/2
		ops := make([]Op, 0, 4)
		ops = appendOp(ops, leftSrc,
			f32.Rect(0, 0, scaledLeft, dstHeight))
		ops = appendOp(ops,
			f32.Rect(bands.Left, 0, bands.Left+halfKeep, srcHeight),
			f32.Rect(scaledLeft, 0, seam, dstHeight))
		ops = appendOp(ops,
			f32.Rect(srcWidth-bands.Right-halfKeep, 0, srcWidth-bands.Right, srcHeight),
			f32.Rect(seam, 0, dstWidth-scaledRight, dstHeight))
		ops = appendOp(ops, rightSrc,
			f32.Rect(dstWidth-scaledRight, 0, dstWidth, dstHeight))
		return ops

	default:
		// Full crop: even the side bands alone overflow the target.
		// Scale them down a second time and center the shorter result
		// vertically within the target.
		kw := dstWidth / minWidth
		height := dstHeight * kw
		y0 := (dstHeight - height) / 2
		y1 := y0 + height
		ops := make([]Op, 0, 2)
		ops = appendOp(ops, leftSrc,
			f32.Rect(0, y0, scaledLeft*kw, y1))
		ops = appendOp(ops, rightSrc,
			f32.Rect(scaledLeft*kw, y0, dstWidth, y1))
		return ops
	}
}

// appendOp appends a blit operation, skipping it if either rectangle has
// no area.
func appendOp(ops []Op, src, dst f32.Rectangle) []Op {
	if src.Dx() <= 0 || src.Dy() <= 0 || dst.Dx() <= 0 || dst.Dy() <= 0 {
		return ops
	}
	return append(ops, Op{Src: src, Dst: dst})
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
