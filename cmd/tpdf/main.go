package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/tpdf/internal/app"
)

func printHelp() {
	fmt.Print(`tpdf - Terminal PDF viewer for kitty-graphics terminals

USAGE:
    tpdf [OPTIONS] FILE [FILE ...]

OPTIONS:
    -h, --help        Show this help message and exit
    -p PAGE           Open at PAGE (1-based) instead of the remembered page
    -s SCALE          Open at zoom SCALE (e.g. 1.5); 0 keeps fit-to-window
    -dark             Start with inverted (dark mode) rendering
    -state-dir DIR    Override the directory used for per-document state
`)
}

// setupLogging sends the standard logger to a file so diagnostics never
// corrupt the terminal the document is drawn on.
func setupLogging() {
	dir, err := os.UserConfigDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	dir = filepath.Join(dir, "tpdf")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		log.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "tpdf.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(f)
}

func main() {
	// Set UTF-8 as fallback encoding so document titles with non-ASCII
	// characters display correctly.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	flag.Usage = printHelp
	page := flag.Int("p", 0, "open at this 1-based page")
	scale := flag.Float64("s", 0, "open at this zoom scale")
	dark := flag.Bool("dark", false, "start with inverted rendering")
	stateDir := flag.String("state-dir", "", "override the state directory")
	flag.Parse()

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(1)
	}

	setupLogging()

	app, err := apppkg.NewApplication(apppkg.Options{
		Paths:    flag.Args(),
		Page:     *page,
		Scale:    *scale,
		Dark:     *dark,
		StateDir: *stateDir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
}
