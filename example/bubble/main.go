// Command bubble is a playground for toying with and showcasing 3-Patch
// chat bubbles: a procedurally drawn bubble surface is loaded
// asynchronously, stretched into a configurable target, and optionally
// overlaid with per-band tinting.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	lorem "github.com/drhodes/golorem"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/profile"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~gioverse/threepatch"
	"git.sr.ht/~gioverse/threepatch/async"
	"git.sr.ht/~gioverse/threepatch/debug"
	tpwidget "git.sr.ht/~gioverse/threepatch/widget"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var (
	th = material.NewTheme(gofont.Collection())
	// profileOpt specifies what to profile.
	profileOpt string
	// latency simulates a slow asset fetch so the loading states are
	// observable.
	latency time.Duration
)

var refreshIcon *widget.Icon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.NavigationRefresh)
	return icon
}()

func main() {
	flag.StringVar(&profileOpt, "profile", "none", "create the provided kind of profile. Use one of [none, cpu, mem, block, goroutine, mutex, trace]")
	flag.DurationVar(&latency, "latency", 800*time.Millisecond, "simulated surface fetch latency")
	flag.Parse()

	ui := NewUI()
	go func() {
		w := app.NewWindow(
			app.Title("3-Patch"),
			app.Size(unit.Dp(800), unit.Dp(600)),
		)
		if err := ui.Run(w); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	// Surrender main thread to OS.
	// Necessary for certain platforms.
	app.Main()
}

// startProfile begins profiling of the requested kind, returning the
// stop function.
func startProfile(kind string) func() {
	opts := map[string]func(*profile.Profile){
		"cpu":       profile.CPUProfile,
		"mem":       profile.MemProfile,
		"block":     profile.BlockProfile,
		"goroutine": profile.GoroutineProfile,
		"mutex":     profile.MutexProfile,
		"trace":     profile.TraceProfile,
	}
	opt, ok := opts[kind]
	if !ok {
		if kind != "" && kind != "none" {
			log.Printf("unknown profile kind %q", kind)
		}
		return func() {}
	}
	return profile.Start(opt).Stop
}

// UI manages the state for the entire application.
type UI struct {
	// loader fetches the bubble surface off the layout goroutine.
	loader async.Loader
	// surface caches the image operation for the loaded bubble.
	surface tpwidget.CachedImage
	// generation distinguishes reloads of the surface.
	generation int

	// Target controls the requested size in pixels. Zero leaves the
	// axis to the layout constraints.
	Target struct {
		Width  widget.Float
		Height widget.Float
	}
	// Ratio controls the center band ratio.
	Ratio widget.Float
	// PxPerDp simulates different screen densities.
	PxPerDp widget.Float
	// ShowText toggles message text atop the bubble.
	ShowText widget.Bool
	// ShowBands toggles the per-band debug tint.
	ShowBands widget.Bool
	// Reload discards the loaded surface and fetches it again.
	Reload widget.Clickable

	// Message is the text laid out over the bubble.
	Message string

	controls widget.List
}

// NewUI constructs the UI with sensible defaults.
func NewUI() *UI {
	ui := &UI{
		Message: lorem.Sentence(3, 12),
	}
	ui.Ratio.Value = threepatch.DefaultRatio
	ui.PxPerDp.Value = 1
	ui.ShowText.Value = true
	return ui
}

// Run handles window events and renders the application.
func (ui *UI) Run(w *app.Window) error {
	stop := startProfile(profileOpt)
	defer ui.loader.Shutdown()
	var ops op.Ops
	for {
		select {
		case <-ui.loader.Updated():
			w.Invalidate()
		case e := <-w.Events():
			switch e := e.(type) {
			case system.DestroyEvent:
				stop()
				return e.Err
			case system.FrameEvent:
				gtx := layout.NewContext(&ops, e)
				ui.Layout(gtx)
				e.Frame(&ops)
			}
		}
	}
}

// Layout the UI: controls on the left, demo area on the right. The
// loader wraps the frame so stale surfaces can be released.
func (ui *UI) Layout(gtx C) D {
	if ui.Reload.Clicked() {
		ui.generation++
		ui.surface = tpwidget.CachedImage{}
	}
	return ui.loader.Frame(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal}.Layout(
			gtx,
			layout.Rigid(func(gtx C) D {
				gtx.Constraints.Max.X = gtx.Px(unit.Dp(300))
				return layout.UniformInset(unit.Dp(12)).Layout(gtx, ui.layoutControls)
			}),
			layout.Rigid(func(gtx C) D {
				return component.Divider(th).Layout(gtx)
			}),
			layout.Flexed(1, func(gtx C) D {
				return layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx C) D {
					return layout.Center.Layout(gtx, ui.layoutDemo)
				})
			}),
		)
	})
}

func (ui *UI) layoutControls(gtx C) D {
	ui.controls.Axis = layout.Vertical
	controls := []layout.Widget{
		func(gtx C) D {
			return material.H6(th, "3-Patch Demo").Layout(gtx)
		},
		func(gtx C) D {
			return LabeledSliderStyle{
				Label:  material.Body1(th, fmt.Sprintf("Target Width: %.0fpx", ui.Target.Width.Value)),
				Slider: material.Slider(th, &ui.Target.Width, 0, 700),
			}.Layout(gtx)
		},
		func(gtx C) D {
			return LabeledSliderStyle{
				Label:  material.Body1(th, fmt.Sprintf("Target Height: %.0fpx", ui.Target.Height.Value)),
				Slider: material.Slider(th, &ui.Target.Height, 0, 700),
			}.Layout(gtx)
		},
		func(gtx C) D {
			return LabeledSliderStyle{
				Label:  material.Body1(th, fmt.Sprintf("Center Ratio: %.2f", ui.Ratio.Value)),
				Slider: material.Slider(th, &ui.Ratio, 0, 0.99),
			}.Layout(gtx)
		},
		func(gtx C) D {
			return LabeledSliderStyle{
				Label:  material.Body1(th, fmt.Sprintf("PxPerDp: %.2f (default %.2f)", ui.PxPerDp.Value, gtx.Metric.PxPerDp)),
				Slider: material.Slider(th, &ui.PxPerDp, 0.3, 4),
			}.Layout(gtx)
		},
		func(gtx C) D {
			return material.CheckBox(th, &ui.ShowText, "Show Text").Layout(gtx)
		},
		func(gtx C) D {
			return material.CheckBox(th, &ui.ShowBands, "Tint Bands").Layout(gtx)
		},
		func(gtx C) D {
			btn := material.IconButton(th, &ui.Reload, refreshIcon)
			btn.Size = unit.Dp(24)
			return layout.W.Layout(gtx, btn.Layout)
		},
	}
	return material.List(th, &ui.controls).Layout(gtx, len(controls), func(gtx C, ii int) D {
		return layout.UniformInset(unit.Dp(6)).Layout(gtx, controls[ii])
	})
}

// layoutDemo schedules the surface load and lays out the stretched
// bubble at the configured size, with the message text atop it.
func (ui *UI) layoutDemo(gtx C) D {
	tag := fmt.Sprintf("bubble-%d", ui.generation)
	r := ui.loader.Schedule(tag, loadSurface)
	switch r.State {
	case async.Loaded:
		ui.surface.Cache(r.Image)
	case async.Queued, async.Loading:
		if ui.surface.Size() == (image.Point{}) {
			return material.Body2(th, "fetching surface...").Layout(gtx)
		}
	case async.Failed:
		lb := material.Body1(th, fmt.Sprintf("loading surface: %v", r.Err))
		lb.Color = color.NRGBA{R: 200, A: 255}
		return lb.Layout(gtx)
	}

	stretch, err := tpwidget.Stretch(ui.surface.Op(), ui.Ratio.Value)
	if err != nil {
		// The slider bounds ratios to [0, 0.99], so this is unreachable
		// short of a programming error.
		log.Fatalf("configuring stretch: %v", err)
	}
	if ui.Target.Width.Value > 0 {
		stretch.Width = unit.Px(ui.Target.Width.Value)
	}
	if ui.Target.Height.Value > 0 {
		stretch.Height = unit.Px(ui.Target.Height.Value)
	}
	gtx.Metric.PxPerDp = ui.PxPerDp.Value

	return debug.Outline(gtx, func(gtx C) D {
		return layout.Stack{}.Layout(
			gtx,
			layout.Stacked(func(gtx C) D {
				dims := stretch.Layout(gtx)
				if ui.ShowBands.Value {
					sz := ui.surface.Size()
					gtx.Constraints.Min = dims.Size
					debug.BandTint(gtx, threepatch.Compose(
						float32(sz.X), float32(sz.Y),
						float32(dims.Size.X), float32(dims.Size.Y),
						ui.Ratio.Value,
					))
				}
				return dims
			}),
			layout.Expanded(func(gtx C) D {
				if !ui.ShowText.Value {
					return D{Size: gtx.Constraints.Min}
				}
				return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx C) D {
					lb := material.Body1(th, ui.Message)
					lb.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
					return lb.Layout(gtx)
				})
			}),
		)
	})
}

// loadSurface draws the bubble surface, simulating the latency of a real
// asset fetch.
func loadSurface(ctx context.Context) (image.Image, error) {
	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return drawSurface(240, 120), nil
}

// drawSurface renders a rounded bubble with a horizontal hue ramp so
// that stretching and cropping of the center band is visible.
func drawSurface(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	const radius = 28
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !inRounded(x, y, width, height, radius) {
				continue
			}
			c := colorful.Hsl(
				200+80*float64(x)/float64(width),
				0.55,
				0.35+0.2*float64(y)/float64(height),
			)
			r, g, b := c.RGB255()
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// inRounded reports whether the pixel lies within a rounded rectangle
// covering the whole image.
func inRounded(x, y, width, height, radius int) bool {
	cx := clamp(x, radius, width-1-radius)
	cy := clamp(y, radius, height-1-radius)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// LabeledSliderStyle draws a slider with a label.
type LabeledSliderStyle struct {
	Label  material.LabelStyle
	Slider material.SliderStyle
}

func (slider LabeledSliderStyle) Layout(gtx C) D {
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(
		gtx,
		layout.Rigid(slider.Label.Layout),
		layout.Rigid(slider.Slider.Layout),
	)
}
