package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the graft ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 __ _   ", "#34d399"},
		{"   __ _ _ __ __ _ / _| |_ ", "#10b981"},
		{"  / _` | '__/ _` | |_| __|", "#14b8a6"},
		{" | (_| | | | (_| |  _| |_ ", "#06b6d4"},
		{"  \\__, |_|  \\__,_|_|  \\__|", "#0ea5e9"},
		{"  |___/                   ", "#3b82f6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
