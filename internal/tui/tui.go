// Package tui renders the spreadsheet grid in a terminal and feeds
// typed commands to the dispatcher. All spreadsheet semantics live
// behind the dispatcher; this package owns only the viewport, the
// command bar and the status line.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/sheet"
)

// gutterWidth is the width of the row-number column.
const gutterWidth = 5

// scrollStep is how far one w/a/s/d command moves the viewport.
const scrollStep = 10

// App is the terminal front end.
type App struct {
	screen tcell.Screen
	eng    *engine.Engine
	disp   *dispatcher.Dispatcher

	cellWidth int
	originRow int
	originCol int

	input   []rune
	status  string
	elapsed time.Duration
	output  bool
	quit    bool
}

// New creates an app over an initialized screen.
func New(screen tcell.Screen, eng *engine.Engine, disp *dispatcher.Dispatcher, cellWidth int) *App {
	if cellWidth < 3 {
		cellWidth = 9
	}
	return &App{
		screen:    screen,
		eng:       eng,
		disp:      disp,
		cellWidth: cellWidth,
		status:    "ok",
		output:    true,
	}
}

// Run drives the event loop until quit.
func (a *App) Run() error {
	a.render()
	for !a.quit {
		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			a.handleKey(ev)
		case *tcell.EventResize:
			a.screen.Sync()
		case *tcell.EventInterrupt:
			// Configuration reloads arrive as interrupts carrying the
			// new cell width.
			if w, ok := ev.Data().(int); ok && w >= 3 {
				a.cellWidth = w
			}
		}
		a.render()
	}
	return nil
}

func (a *App) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.quit = true
	case tcell.KeyEnter:
		a.submit()
	case tcell.KeyEscape:
		a.input = a.input[:0]
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyUp:
		a.scroll(-1, 0)
	case tcell.KeyDown:
		a.scroll(1, 0)
	case tcell.KeyLeft:
		a.scroll(0, -1)
	case tcell.KeyRight:
		a.scroll(0, 1)
	case tcell.KeyPgUp:
		a.scroll(-scrollStep, 0)
	case tcell.KeyPgDn:
		a.scroll(scrollStep, 0)
	case tcell.KeyRune:
		a.input = append(a.input, ev.Rune())
	}
}

// submit executes the typed command. Viewport commands are handled
// here; everything else goes through the dispatcher.
func (a *App) submit() {
	line := strings.TrimSpace(string(a.input))
	a.input = a.input[:0]
	if line == "" {
		return
	}

	start := time.Now()
	a.status = a.execute(line)
	a.elapsed = time.Since(start)
}

func (a *App) execute(line string) string {
	switch line {
	case "q":
		a.quit = true
		return "bye"
	case "w":
		a.scroll(-scrollStep, 0)
		return "ok"
	case "s":
		a.scroll(scrollStep, 0)
		return "ok"
	case "a":
		a.scroll(0, -scrollStep)
		return "ok"
	case "d":
		a.scroll(0, scrollStep)
		return "ok"
	case "disable_output":
		a.output = false
		return "ok"
	case "enable_output":
		a.output = true
		return "ok"
	}

	if ref, ok := strings.CutPrefix(line, "scroll_to "); ok {
		c, err := sheet.ParseRef(strings.TrimSpace(ref), a.eng.Rows(), a.eng.Cols())
		if err != nil {
			return dispatcher.ParseFailure.String()
		}
		a.originRow, a.originCol = c.Row, c.Col
		return "ok"
	}

	return a.disp.Dispatch(line).Status()
}

func (a *App) scroll(dr, dc int) {
	a.originRow = clamp(a.originRow+dr, 0, a.eng.Rows()-1)
	a.originCol = clamp(a.originCol+dc, 0, a.eng.Cols()-1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a *App) render() {
	a.screen.Clear()
	width, height := a.screen.Size()

	if a.output && height > 3 {
		a.renderGrid(width, height-2)
	}

	statusLine := fmt.Sprintf("[%s] (%.1fms)", a.status, float64(a.elapsed.Microseconds())/1000)
	a.drawText(0, height-2, statusLine, styleStatus)
	a.drawText(0, height-1, "> "+string(a.input), styleDefault)
	a.screen.ShowCursor(2+len(a.input), height-1)
	a.screen.Show()
}

func (a *App) renderGrid(width, height int) {
	visCols := (width - gutterWidth) / a.cellWidth
	visRows := height - 1
	if visCols < 1 || visRows < 1 {
		return
	}

	for i := 0; i < visCols; i++ {
		col := a.originCol + i
		if col >= a.eng.Cols() {
			break
		}
		x := gutterWidth + i*a.cellWidth
		a.drawText(x, 0, pad(sheet.ColumnLabel(col), a.cellWidth), styleHeader)
	}

	for j := 0; j < visRows; j++ {
		row := a.originRow + j
		if row >= a.eng.Rows() {
			break
		}
		a.drawText(0, 1+j, pad(fmt.Sprintf("%d", row+1), gutterWidth), styleHeader)

		for i := 0; i < visCols; i++ {
			col := a.originCol + i
			if col >= a.eng.Cols() {
				break
			}
			v := a.eng.View(sheet.Coord{Row: row, Col: col})
			style := styleDefault
			if v.Err != sheet.ErrorNone {
				style = styleError
			}
			x := gutterWidth + i*a.cellWidth
			a.drawText(x, 1+j, pad(v.Display(), a.cellWidth), style)
		}
	}
}

// pad right-aligns s in a field one narrower than width, truncating
// from the left if it does not fit.
func pad(s string, width int) string {
	field := width - 1
	if len(s) > field {
		s = s[len(s)-field:]
	}
	return strings.Repeat(" ", field-len(s)) + s + " "
}

func (a *App) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

var (
	styleDefault = tcell.StyleDefault
	styleHeader  = tcell.StyleDefault.Bold(true)
	styleError   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus  = tcell.StyleDefault.Reverse(true)
)
