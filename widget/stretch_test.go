package widget

import (
	"image"
	"testing"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
)

// testContext allocates a layout context with a 2:1 pixel to dp ratio so
// that unit conversion is observable.
func testContext(min, max image.Point) layout.Context {
	return layout.Context{
		Ops: new(op.Ops),
		Metric: unit.Metric{
			PxPerDp: 2,
			PxPerSp: 2,
		},
		Constraints: layout.Constraints{
			Min: min,
			Max: max,
		},
	}
}

func testSurface(width, height int) paint.ImageOp {
	return paint.NewImageOp(image.NewNRGBA(image.Rect(0, 0, width, height)))
}

func TestStretchRatioValidation(t *testing.T) {
	src := testSurface(100, 40)
	for _, tt := range []struct {
		Label string
		Ratio float32
		Valid bool
	}{
		{Label: "default", Ratio: 0.5, Valid: true},
		{Label: "zero", Ratio: 0, Valid: true},
		{Label: "one", Ratio: 1, Valid: false},
		{Label: "negative", Ratio: -1, Valid: false},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			_, err := Stretch(src, tt.Ratio)
			if got := err == nil; got != tt.Valid {
				t.Errorf("Stretch(ratio=%v) error = %v, want valid = %v", tt.Ratio, err, tt.Valid)
			}
		})
	}
}

// TestStretchResolve tests target size resolution: fixed sizes convert
// through the pixel ratio, constraints fill in when no size is fixed,
// and the intrinsic image size stands in on unconstrained axes.
func TestStretchResolve(t *testing.T) {
	src := testSurface(100, 40)
	for _, tt := range []struct {
		Label         string
		Width, Height unit.Value
		Min, Max      image.Point
		Want          image.Point
	}{
		{
			Label: "fixed size in dp",
			Width: unit.Dp(50), Height: unit.Dp(25),
			Max:  image.Pt(1000, 1000),
			Want: image.Pt(100, 50),
		},
		{
			Label: "unconstrained falls back to intrinsic size",
			Max:   image.Pt(1000, 1000),
			Want:  image.Pt(100, 40),
		},
		{
			Label: "minimum constraint drives the target",
			Min:   image.Pt(300, 40),
			Max:   image.Pt(1000, 1000),
			Want:  image.Pt(300, 40),
		},
		{
			Label: "maximum constraint clamps the intrinsic fallback",
			Max:   image.Pt(60, 60),
			Want:  image.Pt(60, 40),
		},
		{
			Label: "fixed size clamped by constraints",
			Width: unit.Dp(50), Height: unit.Dp(25),
			Max:  image.Pt(80, 30),
			Want: image.Pt(80, 30),
		},
	} {
		t.Run(tt.Label, func(t *testing.T) {
			s, err := Stretch(src, 0.5)
			if err != nil {
				t.Fatalf("constructing stretch: %v", err)
			}
			s.Width, s.Height = tt.Width, tt.Height
			gtx := testContext(tt.Min, tt.Max)
			dims := s.Layout(gtx)
			if dims.Size != tt.Want {
				t.Errorf("got dimensions %v, want %v", dims.Size, tt.Want)
			}
		})
	}
}

// TestStretchNoImage tests that laying out before an image is available
// occupies the resolved space without painting.
func TestStretchNoImage(t *testing.T) {
	var s StretchStyle
	s.Ratio = 0.5
	gtx := testContext(image.Pt(50, 50), image.Pt(1000, 1000))
	dims := s.Layout(gtx)
	if want := image.Pt(50, 50); dims.Size != want {
		t.Errorf("got dimensions %v, want %v", dims.Size, want)
	}
}

func TestCachedImage(t *testing.T) {
	var cache CachedImage
	if sz := cache.Size(); sz != (image.Point{}) {
		t.Errorf("empty cache reports size %v", sz)
	}
	cache.Cache(image.NewNRGBA(image.Rect(0, 0, 30, 20)))
	if sz := cache.Size(); sz != image.Pt(30, 20) {
		t.Errorf("cache reports size %v, want (30, 20)", sz)
	}
	baked := cache.Op()
	cache.Cache(image.NewNRGBA(image.Rect(0, 0, 99, 99)))
	if cache.Op() != baked {
		t.Error("caching a plain image twice recomputed the operation")
	}
}
