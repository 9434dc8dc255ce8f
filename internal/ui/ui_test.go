package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	prevOut, prevErr, prevMode, prevTheme := stdout, stderr, colorMode, current
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		stdout, stderr, colorMode, current = prevOut, prevErr, prevMode, prevTheme
	})
	return &out, &errOut
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{1, 2, 10, "█████░░░░░  50%"},
		{3, 3, 5, "█████ 100%"},
		{1, 4, 2, "█░░░░  25%"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("ProgressBar(%d, %d, %d) = %q, want %q", tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestColorModes(t *testing.T) {
	capture(t)

	SetColorMode(ColorNever)
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("never: %q", got)
	}
	SetColorMode(ColorAlways)
	if got := C(fgRed, "x"); got != fgRed+"x"+reset {
		t.Errorf("always: %q", got)
	}
	// a buffer is not a terminal
	SetColorMode(ColorAuto)
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("auto on buffer: %q", got)
	}
	SetColorMode(ColorAlways)
	SetTheme("mono")
	if got := C(fgRed, "x"); got != "x" {
		t.Errorf("mono theme: %q", got)
	}
}

func TestPanelAlignsColoredLines(t *testing.T) {
	out, _ := capture(t)
	SetColorMode(ColorAlways)
	SetTheme("classic")

	Panel([]string{C(fgGreen, "ab"), "abcd"})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	if lines[0] != "┌──────┐" || lines[3] != "└──────┘" {
		t.Errorf("frame = %q / %q", lines[0], lines[3])
	}
	if w := visibleWidth(lines[1]); w != visibleWidth(lines[2]) {
		t.Errorf("rows not aligned: %q vs %q", lines[1], lines[2])
	}
}

func TestOKAndFail(t *testing.T) {
	out, errOut := capture(t)
	SetColorMode(ColorNever)
	SetTheme("mono")

	OK("added")
	Fail("usage: todo rm <id>")

	if out.String() != "ok added\n" {
		t.Errorf("OK wrote %q", out.String())
	}
	if errOut.String() != "error: usage: todo rm <id>\n" {
		t.Errorf("Fail wrote %q", errOut.String())
	}
}

func TestParseColorMode(t *testing.T) {
	if ParseColorMode("always") != ColorAlways || ParseColorMode("never") != ColorNever || ParseColorMode("auto") != ColorAuto {
		t.Error("ParseColorMode mismatch")
	}
}
