/*
Package debug provides tools for debugging threepatch layout code.
*/
package debug

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	colorful "github.com/lucasb-eyer/go-colorful"

	"git.sr.ht/~gioverse/threepatch"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

// Outline traces a small black outline around the provided widget.
func Outline(gtx C, w func(gtx C) D) D {
	return widget.Border{
		Color: color.NRGBA{A: 255},
		Width: unit.Dp(1),
	}.Layout(gtx, w)
}

// BandTint washes each band's destination rectangle with a distinct
// translucent hue, making band boundaries and scaling transitions
// visible. Lay it out atop the stretched image, passing the same
// operations the image was composed with.
func BandTint(gtx C, ops []threepatch.Op) D {
	for ii, band := range ops {
		r, g, b := colorful.Hsv(float64(ii)/4*360, 1, 1).RGB255()
		paint.FillShape(gtx.Ops,
			color.NRGBA{R: r, G: g, B: b, A: 80},
			clip.Rect(rounded(band.Dst)).Op())
	}
	return D{Size: gtx.Constraints.Min}
}

func rounded(r f32.Rectangle) image.Rectangle {
	return image.Rect(
		int(math.Round(float64(r.Min.X))),
		int(math.Round(float64(r.Min.Y))),
		int(math.Round(float64(r.Max.X))),
		int(math.Round(float64(r.Max.Y))),
	)
}
