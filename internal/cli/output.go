package cli

import (
	"github.com/fatih/color"
)

// Status line styles. color disables itself when stdout is not a terminal.
var (
	success = color.New(color.FgGreen, color.Bold)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
	faint   = color.New(color.Faint)
)
