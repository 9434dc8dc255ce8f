package ui

import "strings"

// Theme bundles palette, symbols and panel borders.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string

	BoxPending, BoxDone string
	SymOK, SymFail      string
	SymDone, SymPending string

	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string

	mono bool
}

var current = classic()

func classic() Theme {
	return Theme{
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		BoxPending: "☐", BoxDone: "☑",
		SymOK: "✔", SymFail: "✖",
		SymDone: "✔", SymPending: "•",
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
	}
}

// SetTheme selects classic (default), neon or mono.
func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			BoxPending: "◻", BoxDone: "◼",
			SymOK: "✔", SymFail: "✖",
			SymDone: "✔", SymPending: "•",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
		}
	case "mono":
		current = Theme{
			BoxPending: "[ ]", BoxDone: "[x]",
			SymOK: "ok", SymFail: "error:",
			SymDone: "x", SymPending: "-",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			mono: true,
		}
	default:
		current = classic()
	}
}

func Current() Theme { return current }
