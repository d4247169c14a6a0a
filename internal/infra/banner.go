package infra

import (
	"fmt"
	"io"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// PrintBanner displays the startup banner. Every session runs on simulated
// funds, so the banner says so up front.
func PrintBanner(w io.Writer, cfg *Config) {
	name := cfg.App.Name
	if name == "" {
		name = "PaperTrade"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s###########################################################%s\n", ColorCyan, ColorReset)
	fmt.Fprintf(w, "%s#                                                         #%s\n", ColorCyan, ColorReset)
	fmt.Fprintf(w, "%s#   %-53s #%s\n", ColorCyan, name+" — Stock Trading Simulator", ColorReset)
	fmt.Fprintf(w, "%s#                                                         #%s\n", ColorCyan, ColorReset)
	fmt.Fprintf(w, "%s#   MODE:    PAPER (SIMULATED FUNDS ONLY)                 #%s\n", ColorCyan, ColorReset)
	fmt.Fprintf(w, "%s#   VERSION: %-44s #%s\n", ColorCyan, cfg.App.Version, ColorReset)
	fmt.Fprintf(w, "%s#                                                         #%s\n", ColorCyan, ColorReset)
	fmt.Fprintf(w, "%s###########################################################%s\n", ColorCyan, ColorReset)
	fmt.Fprintln(w)
}
