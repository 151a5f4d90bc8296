package display

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/petems/oscilloscope/internal/config"
	"github.com/petems/oscilloscope/internal/render"
)

// Terminal draws the trace with braille characters in the current
// terminal. The top row carries the title and level readout.
type Terminal struct {
	screen tcell.Screen
	canvas *brailleCanvas
	title  string
	trace  tcell.Style
	status tcell.Style

	events chan tcell.Event
	closed bool
}

// NewTerminal takes over the terminal until Close.
func NewTerminal(cfg config.DisplayConfig) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal screen: %w", err)
	}
	screen.HideCursor()
	screen.Clear()

	return newTerminal(screen, cfg), nil
}

func newTerminal(screen tcell.Screen, cfg config.DisplayConfig) *Terminal {
	t := &Terminal{
		screen: screen,
		canvas: newBrailleCanvas(MappingFor(cfg)),
		title:  cfg.Title,
		trace:  tcell.StyleDefault.Foreground(tcell.ColorRed),
		status: tcell.StyleDefault.Reverse(true),
		events: make(chan tcell.Event, 16),
	}
	go t.pollEvents()
	return t
}

// pollEvents forwards screen events until the screen is finalised, at which
// point PollEvent returns nil.
func (t *Terminal) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			close(t.events)
			return
		}
		select {
		case t.events <- ev:
		default:
			// The render loop is behind; key repeats and resizes are safe to drop.
		}
	}
}

// handleEvents drains pending events without blocking.
func (t *Terminal) handleEvents() {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				t.closed = true
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					t.closed = true
				}
			case *tcell.EventResize:
				t.screen.Sync()
			}
		default:
			return
		}
	}
}

func (t *Terminal) Begin() (render.Path, error) {
	t.handleEvents()
	if t.closed {
		return nil, ErrClosed
	}
	cols, rows := t.screen.Size()
	t.canvas.Reset(cols, rows-1)
	return t.canvas, nil
}

func (t *Terminal) End(level render.Level) error {
	t.screen.Clear()
	t.canvas.each(func(col, row int, r rune) {
		t.screen.SetContent(col, row+1, r, nil, t.trace)
	})

	cols, _ := t.screen.Size()
	line := fmt.Sprintf(" %s  %s ", t.title, levelText(level))
	for i, r := range []rune(line) {
		if i >= cols {
			break
		}
		t.screen.SetContent(i, 0, r, nil, t.status)
	}

	t.screen.Show()
	return nil
}

func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}
