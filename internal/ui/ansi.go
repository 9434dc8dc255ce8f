package ui

import (
	"fmt"
	"io"
	"os"
)

const (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"
)

// ColorMode decides whether C emits escape codes.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode maps the config value; unknown values mean auto.
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	}
	return ColorAuto
}

var (
	colorMode ColorMode
	stdout    io.Writer = os.Stdout
	stderr    io.Writer = os.Stderr
)

// SetColorMode switches coloring for all helpers.
func SetColorMode(m ColorMode) { colorMode = m }

// SetOutput redirects OK/Fail/Panel output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// Stdout and Stderr return the writers the helpers print to.
func Stdout() io.Writer { return stdout }
func Stderr() io.Writer { return stderr }

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// C wraps s in color when coloring is on.
func C(color, s string) string {
	if color == "" || current.mono {
		return s
	}
	switch colorMode {
	case ColorNever:
		return s
	case ColorAuto:
		if !isTTY(stdout) {
			return s
		}
	}
	return color + s + reset
}

func OK(msg string)   { fmt.Fprintln(stdout, C(current.Success, current.SymOK+" "+msg)) }
func Fail(msg string) { fmt.Fprintln(stderr, C(current.Error, current.SymFail+" "+msg)) }

// Hint prints a muted follow-up line to stderr.
func Hint(msg string) { fmt.Fprintln(stderr, C(current.Muted, msg)) }
