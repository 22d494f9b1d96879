// Package main is the entry point for the gridstorm spreadsheet.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/dispatcher"
	"github.com/dshills/gridstorm/internal/engine"
	"github.com/dshills/gridstorm/internal/filestore"
	"github.com/dshills/gridstorm/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		rows        int
		cols        int
		loadPath    string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.IntVar(&rows, "rows", 0, "Grid rows (overrides config)")
	flag.IntVar(&cols, "cols", 0, "Grid columns (overrides config)")
	flag.StringVar(&loadPath, "load", "", "CSV file to load at startup")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gridstorm - terminal spreadsheet\n\n")
		fmt.Fprintf(os.Stderr, "Usage: gridstorm [options]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("gridstorm %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if rows > 0 {
		cfg.Grid.Rows = rows
	}
	if cols > 0 {
		cfg.Grid.Cols = cols
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	opts := engine.Options{
		Rows:    cfg.Grid.Rows,
		Cols:    cfg.Grid.Cols,
		MaxUndo: cfg.History.MaxEntries,
	}
	if !cfg.Eval.SleepEnabled {
		opts.Sleep = func(time.Duration) {}
	}
	eng, err := engine.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if loadPath != "" {
		values, err := filestore.LoadFile(loadPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := eng.ImportValues(values); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		screen.Fini()
		os.Exit(1)
	}()

	if configPath != "" {
		w, err := config.Watch(configPath, func(cfg config.Config) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(cfg.UI.CellWidth))
		})
		if err == nil {
			defer w.Close()
		}
	}

	app := tui.New(screen, eng, dispatcher.New(eng), cfg.UI.CellWidth)
	if err := app.Run(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
