// Package dispatcher parses command strings and routes them to engine
// operations. Commands are the textual protocol shared by the command
// bar and scripted input: cell assignments ("A1=SUM(B1:B4)"), range
// operations ("copy(A1:B2)", "paste(C1)"), undo/redo and file I/O.
package dispatcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/filestore"
	"github.com/dshills/gridstorm/internal/sheet"
	"github.com/dshills/gridstorm/internal/sheet/formula"
	"github.com/dshills/gridstorm/internal/sheet/graph"
	"github.com/dshills/gridstorm/internal/sheet/history"
)

// Code classifies the outcome of one dispatched command.
type Code uint8

const (
	OK Code = iota
	// ParseFailure covers malformed commands, cell names and formulas.
	ParseFailure
	// Circular marks a rejected cyclic assignment.
	Circular
	// InvalidRange marks a range operation with a bad rectangle.
	InvalidRange
	// EmptyBuffer marks a paste before any copy or cut.
	EmptyBuffer
	// NoHistory marks undo/redo with an exhausted stack.
	NoHistory
	// IOFailure marks a failed save or load.
	IOFailure
	// Unknown marks a command the dispatcher does not recognize.
	Unknown
)

// String returns the status word shown to the user.
func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case ParseFailure:
		return "unrecognized cmd"
	case Circular:
		return "circular dependency"
	case InvalidRange:
		return "invalid range"
	case EmptyBuffer:
		return "empty buffer"
	case NoHistory:
		return "nothing to do"
	case IOFailure:
		return "file error"
	case Unknown:
		return "unrecognized cmd"
	default:
		return "error"
	}
}

// Result is the outcome of one command.
type Result struct {
	Code Code
	Err  error

	// Detail, when set, is a richer status than the code's word, such
	// as the identity of the history entry an undo applied.
	Detail string
}

// Ok reports whether the command succeeded.
func (r Result) Ok() bool { return r.Code == OK }

// Status returns what the status line shows for the result.
func (r Result) Status() string {
	if r.Ok() && r.Detail != "" {
		return r.Detail
	}
	return r.Code.String()
}

// Dispatcher binds the command protocol to one engine.
type Dispatcher struct {
	eng *engine.Engine
}

// New creates a dispatcher over the engine.
func New(eng *engine.Engine) *Dispatcher {
	return &Dispatcher{eng: eng}
}

// Dispatch executes one command line. Navigation and quit commands are
// the UI's concern; everything reaching here mutates or queries the
// sheet.
func (d *Dispatcher) Dispatch(line string) Result {
	line = strings.TrimSpace(line)
	if line == "" {
		return Result{Code: Unknown, Err: errors.New("empty command")}
	}

	switch line {
	case "undo":
		info, err := d.eng.Undo()
		return d.withOp("undid", info, err)
	case "redo":
		info, err := d.eng.Redo()
		return d.withOp("redid", info, err)
	}

	if name, arg, ok := splitCall(line); ok {
		return d.call(name, arg)
	}

	if ref, expr, ok := strings.Cut(line, "="); ok {
		return d.classify(d.eng.Set(ref, expr))
	}

	return Result{Code: Unknown, Err: fmt.Errorf("unrecognized command %q", line)}
}

// splitCall matches the "name(arg)" command shape.
func splitCall(line string) (name, arg string, ok bool) {
	open := strings.IndexByte(line, '(')
	if open <= 0 || !strings.HasSuffix(line, ")") {
		return "", "", false
	}
	name = line[:open]
	// Assignments like "A1=MIN(B1:B2)" also end in ')'; only treat the
	// line as a call when the name is not an assignment target.
	if strings.ContainsRune(name, '=') {
		return "", "", false
	}
	return name, line[open+1 : len(line)-1], true
}

func (d *Dispatcher) call(name, arg string) Result {
	rows, cols := d.eng.Rows(), d.eng.Cols()
	switch name {
	case "copy", "cut", "sorta", "sortd":
		r, err := sheet.ParseRange(arg, rows, cols)
		if err != nil {
			return d.classify(err)
		}
		switch name {
		case "copy":
			return d.classify(d.eng.Copy(r))
		case "cut":
			return d.classify(d.eng.Cut(r))
		case "sorta":
			return d.classify(d.eng.Sort(r, false))
		default:
			return d.classify(d.eng.Sort(r, true))
		}

	case "paste":
		c, err := sheet.ParseRef(arg, rows, cols)
		if err != nil {
			return d.classify(err)
		}
		return d.classify(d.eng.Paste(c))

	case "autofill":
		rangePart, destPart, ok := strings.Cut(arg, ",")
		if !ok {
			return Result{Code: ParseFailure, Err: fmt.Errorf("autofill wants range,cell")}
		}
		src, err := sheet.ParseRange(strings.TrimSpace(rangePart), rows, cols)
		if err != nil {
			return d.classify(err)
		}
		dest, err := sheet.ParseRef(strings.TrimSpace(destPart), rows, cols)
		if err != nil {
			return d.classify(err)
		}
		return d.classify(d.eng.Autofill(src, dest))

	case "save":
		return d.classify(filestore.SaveFile(arg, d.eng.ExportValues()))

	case "load":
		values, err := filestore.LoadFile(arg)
		if err != nil {
			return d.classify(err)
		}
		return d.classify(d.eng.ImportValues(values))

	default:
		return Result{Code: Unknown, Err: fmt.Errorf("unrecognized command %q", name)}
	}
}

// withOp attaches the applied history entry to a successful undo/redo.
func (d *Dispatcher) withOp(verb string, info engine.OpInfo, err error) Result {
	res := d.classify(err)
	if res.Ok() {
		res.Detail = fmt.Sprintf("%s %s [%.8s]", verb, info.Name, info.ID)
	}
	return res
}

// classify maps engine errors to result codes.
func (d *Dispatcher) classify(err error) Result {
	switch {
	case err == nil:
		return Result{Code: OK}
	case errors.Is(err, graph.ErrCycle):
		return Result{Code: Circular, Err: err}
	case errors.Is(err, engine.ErrEmptyBuffer):
		return Result{Code: EmptyBuffer, Err: err}
	case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return Result{Code: NoHistory, Err: err}
	case errors.Is(err, sheet.ErrInvalidRange):
		return Result{Code: InvalidRange, Err: err}
	case errors.Is(err, formula.ErrParse), errors.Is(err, sheet.ErrInvalidRef):
		return Result{Code: ParseFailure, Err: err}
	case errors.Is(err, filestore.ErrBadFile):
		return Result{Code: IOFailure, Err: err}
	default:
		return Result{Code: IOFailure, Err: err}
	}
}
