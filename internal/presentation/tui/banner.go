package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	s1 := termenv.String("                      _                      ").Foreground(p.Color("#818cf8"))
	s2 := termenv.String("  ___ _ __ ___  __| | ___ _ __   ___ ___ ").Foreground(p.Color("#a78bfa"))
	s3 := termenv.String(" / __| '__/ _ \\/ _` |/ _ \\ '_ \\ / __/ _ \\").Foreground(p.Color("#c084fc"))
	s4 := termenv.String("| (__| | |  __/ (_| |  __/ | | | (_|  __/").Foreground(p.Color("#e879f9"))
	s5 := termenv.String(" \\___|_|  \\___|\\__,_|\\___|_| |_|\\___\\___|").Foreground(p.Color("#f472b6"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
