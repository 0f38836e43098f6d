package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ___                          _         _   `, "#34d399"},
	{`  / __|__ _ _ _ ___ ___ _ _ ___| |__  ___| |_ `, "#2dd4bf"},
	{` | (__/ _' | '_/ -_) -_) '_|___| '_ \/ _ \  _|`, "#22d3ee"},
	{`  \___\__,_|_| \___\___|_|     |_.__/\___/\__|`, "#38bdf8"},
}

// PrintBanner writes the careerbot banner and a version line to w, colored
// when the terminal supports it.
func PrintBanner(w io.Writer, version string) {
	p := termenv.NewOutput(w).ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, p.String("  careers advice bot "+version).Faint())
	fmt.Fprintln(w)
}
