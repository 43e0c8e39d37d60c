// Package threepatch implements horizontal 3-Patch image rendering in Gio.
//
// A 3-Patch is the single-axis cousin of the Android 9-Patch
// (https://developer.android.com/guide/topics/graphics/drawables#nine-patch):
// the source image is sliced into a left, center and right band. The side
// bands always render at a uniform scale so that edge artwork such as
// bubble tails and rounded corners keeps its proportions, while the center
// band absorbs all horizontal stretching or cropping.
package threepatch

import (
	"fmt"

	"gioui.org/f32"
)

// DefaultRatio is the fraction of the source width treated as the
// stretchable center band when no ratio is configured.
const DefaultRatio = 0.5

// Op is a single blit instruction: copy the Src rectangle of the source
// image onto the Dst rectangle of the target, scaling as needed. Both
// rectangles are in pixel coordinates.
type Op struct {
	Src f32.Rectangle
	Dst f32.Rectangle
}

// Bands describes the three vertical slices of a source image, as widths
// in source pixels. The side bands are always equal in width.
type Bands struct {
	Left, Center, Right float32
}

// Split computes the band widths for a source width and center ratio.
func Split(srcWidth, ratio float32) Bands {
	center := srcWidth * ratio
	side := (srcWidth - center) / 2
	return Bands{Left: side, Center: center, Right: side}
}

// Width reports the total width of the bands, matching the source width
// the bands were split from.
func (b Bands) Width() float32 {
	return b.Left + b.Center + b.Right
}

// ValidRatio reports whether ratio is usable as a center band ratio.
// Valid ratios lie in [0, 1): a ratio of 1.0 or more would eliminate the
// side bands entirely.
func ValidRatio(ratio float32) error {
	if ratio < 0 || ratio >= 1 {
		return fmt.Errorf("threepatch: center ratio %v outside [0, 1)", ratio)
	}
	return nil
}
