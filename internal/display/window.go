package display

import (
	"fmt"

	"github.com/petems/oscilloscope/internal/config"
	"github.com/petems/oscilloscope/internal/render"
	"github.com/veandco/go-sdl2/sdl"
)

// Window draws the trace in an SDL window using logical pixel coordinates,
// so sample i lands on column i.
//
// SDL must be driven from the thread that created the window; the caller is
// responsible for runtime.LockOSThread.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	path     *pointPath
	title    string
	frames   int
}

const titleEvery = 15

// NewWindow opens a window sized from cfg.
func NewWindow(cfg config.DisplayConfig) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("failed to initialize SDL video: %w", err)
	}

	window, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width), int32(cfg.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	w := &Window{
		window:   window,
		renderer: renderer,
		title:    cfg.Title,
	}
	w.path = &pointPath{stroke: w.strokeLines}
	return w, nil
}

func (w *Window) strokeLines(points []sdl.Point) {
	w.renderer.SetDrawColor(255, 0, 0, 255)
	w.renderer.DrawLines(points)
}

func (w *Window) Begin() (render.Path, error) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return nil, ErrClosed
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && (e.Keysym.Sym == sdl.K_ESCAPE || e.Keysym.Sym == sdl.K_q) {
				return nil, ErrClosed
			}
		}
	}

	w.renderer.SetDrawColor(0, 0, 0, 255)
	w.renderer.Clear()
	w.path.reset()
	return w.path, nil
}

func (w *Window) End(level render.Level) error {
	// Retitling every frame makes some window managers flicker.
	if w.frames%titleEvery == 0 {
		w.window.SetTitle(w.title + "  " + levelText(level))
	}
	w.frames++
	w.renderer.Present()
	return nil
}

func (w *Window) Close() error {
	w.renderer.Destroy()
	w.window.Destroy()
	sdl.Quit()
	return nil
}

// pointPath collects a polyline as integer pixels and hands it to stroke.
// The backing slice is reused across frames.
type pointPath struct {
	points []sdl.Point
	stroke func([]sdl.Point)
}

func (p *pointPath) reset() {
	p.points = p.points[:0]
}

func (p *pointPath) MoveTo(x, y float32) {
	p.flush()
	p.LineTo(x, y)
}

func (p *pointPath) LineTo(x, y float32) {
	p.points = append(p.points, sdl.Point{X: pixel(x), Y: pixel(y)})
}

func (p *pointPath) Stroke() {
	p.flush()
}

func (p *pointPath) flush() {
	if len(p.points) > 0 {
		p.stroke(p.points)
	}
	p.points = p.points[:0]
}

// pixel rounds a logical coordinate, keeping NaN and huge values inside
// int32 range.
func pixel(v float32) int32 {
	const limit = 1 << 20
	switch {
	case !(v >= -limit):
		return -limit
	case v > limit:
		return limit
	}
	return int32(v + 0.5)
}
