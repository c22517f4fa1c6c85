// Package output provides output formatting utilities for CLI commands.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatTable outputs data in a formatted table.
	FormatTable Format = "table"
	// FormatJSON outputs data as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs data as YAML.
	FormatYAML Format = "yaml"
)

// Status marks printed after each progress step.
const (
	MarkSuccess = "✓"
	MarkFailure = "✗"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiFaint  = "\033[2m"
)

// ParseFormat parses a string into a Format, returning an error if invalid.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: table, json, yaml)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Printer handles formatted output to a writer.
//
// Structured output (tables, JSON, YAML) goes to out. Status lines
// (progress, success, warnings) also go to out in table mode, and are
// suppressed in JSON/YAML mode so the document stays parseable.
type Printer struct {
	out    io.Writer
	format Format
	color  bool
}

// NewPrinter creates a new Printer with the given options.
func NewPrinter(out io.Writer, format Format, color bool) *Printer {
	return &Printer{
		out:    out,
		format: format,
		color:  color,
	}
}

// Format returns the printer's output format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the printer's output writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// ColorEnabled returns whether color output is enabled.
func (p *Printer) ColorEnabled() bool {
	return p.color
}

// Structured reports whether the printer emits a machine-readable document.
func (p *Printer) Structured() bool {
	return p.format == FormatJSON || p.format == FormatYAML
}

// Print outputs data in the configured format.
// For table format, data should implement TableRenderer.
// For JSON/YAML, data will be marshaled directly.
func (p *Printer) Print(data any) error {
	switch p.format {
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(p.out, renderer)
		}
		return PrintJSON(p.out, data)
	case FormatJSON:
		return PrintJSON(p.out, data)
	case FormatYAML:
		return PrintYAML(p.out, data)
	default:
		return fmt.Errorf("unknown format: %s", p.format)
	}
}

// Println prints a message followed by a newline.
func (p *Printer) Println(args ...any) {
	if p.Structured() {
		return
	}
	_, _ = fmt.Fprintln(p.out, args...)
}

// Printf prints a formatted message.
func (p *Printer) Printf(format string, args ...any) {
	if p.Structured() {
		return
	}
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Success prints a success message.
func (p *Printer) Success(msg string) {
	p.line(ansiGreen, msg)
}

// Error prints an error message.
func (p *Printer) Error(msg string) {
	p.line(ansiRed, msg)
}

// Warning prints a warning message.
func (p *Printer) Warning(msg string) {
	p.line(ansiYellow, msg)
}

// Step prints the start of progress step position/total, without a newline,
// so that Done can finish the line.
func (p *Printer) Step(verb string, position, total int, name string) {
	p.Printf("%s %d/%d: %s ", verb, position, total, name)
}

// Done finishes a Step line with a success or failure mark and an optional
// faint detail.
func (p *Printer) Done(ok bool, detail string) {
	if p.Structured() {
		return
	}
	mark, code := MarkSuccess, ansiGreen
	if !ok {
		mark, code = MarkFailure, ansiRed
	}
	_, _ = fmt.Fprint(p.out, p.colorize(code, mark))
	if detail != "" {
		_, _ = fmt.Fprint(p.out, " "+p.colorize(ansiFaint, "("+detail+")"))
	}
	_, _ = fmt.Fprintln(p.out)
}

func (p *Printer) line(code, msg string) {
	if p.Structured() {
		return
	}
	_, _ = fmt.Fprintln(p.out, p.colorize(code, msg))
}

func (p *Printer) colorize(code, s string) string {
	if !p.color {
		return s
	}
	return code + s + ansiReset
}

// YesNo renders a boolean table cell.
func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}
