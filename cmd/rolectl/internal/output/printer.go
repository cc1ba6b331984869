// Package output formats rolectl results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes messages, optionally colored.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// ResolveColors reports whether colors should be used given the config
// value and the environment.
func ResolveColors(configColors bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return configColors
}

// NewPrinter returns a Printer writing to out and err.
func NewPrinter(out, err io.Writer, useColors bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors}
}

// Out returns the standard output writer.
func (p *Printer) Out() io.Writer { return p.out }

// Info prints an informational message.
func (p *Printer) Info(format string, args ...any) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
}

// Warning prints a warning to the error stream.
func (p *Printer) Warning(format string, args ...any) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
}

// Error prints an error to the error stream.
func (p *Printer) Error(format string, args ...any) {
	if p.useColors {
		color.New(color.FgRed).Fprintf(p.err, "✗ "+format+"\n", args...)
		return
	}
	fmt.Fprintf(p.err, "[ERROR] "+format+"\n", args...)
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Badge renders a verification flag.
func (p *Printer) Badge(ok bool) string {
	if !p.useColors {
		if ok {
			return "yes"
		}
		return "no"
	}
	if ok {
		return color.GreenString("●")
	}
	return color.RedString("●")
}
