package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// terminalSize reports the size of out when it is a terminal, and the defaults otherwise.
func terminalSize(out io.Writer) (cols, rows int, tty bool) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultCols, defaultRows, false
	}
	cols, rows, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return defaultCols, defaultRows, true
	}
	return cols, rows, true
}
