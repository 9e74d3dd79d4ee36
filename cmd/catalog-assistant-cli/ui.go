// Package main provides UI utilities for the catalog assistant CLI.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// UI provides user-friendly output utilities.
type UI struct {
	out      io.Writer
	progress *mpb.Progress
	noColor  bool
	jsonMode bool
}

// NewUI creates a new UI writing to out.
func NewUI(out io.Writer, jsonMode, noColor bool) *UI {
	return &UI{
		out:      out,
		noColor:  noColor,
		jsonMode: jsonMode,
	}
}

// Close waits for running progress bars. It is safe to call more than once.
func (ui *UI) Close() {
	if ui.progress == nil {
		return
	}
	// Piped output cannot render bars and Wait may hang.
	if IsTerminal() {
		ui.progress.Wait()
	} else {
		ui.progress.Shutdown()
	}
	ui.progress = nil
}

func (ui *UI) line(attr color.Attribute, symbol, format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	msg := fmt.Sprintf("%s %s\n", symbol, fmt.Sprintf(format, args...))
	if ui.noColor {
		fmt.Fprint(ui.out, msg)
		return
	}
	color.New(attr).Fprint(ui.out, msg)
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...interface{}) {
	ui.line(color.FgGreen, "✓", format, args...)
}

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...interface{}) {
	ui.line(color.FgYellow, "⚠", format, args...)
}

// Info prints an info message.
func (ui *UI) Info(format string, args ...interface{}) {
	ui.line(color.FgCyan, "ℹ", format, args...)
}

// Answer prints an assistant reply.
func (ui *UI) Answer(text string) {
	if ui.jsonMode {
		return
	}
	fmt.Fprintln(ui.out, text)
}

// ProgressBar creates a progress bar on stderr. It returns nil in JSON mode.
func (ui *UI) ProgressBar(name string, total int64) *mpb.Bar {
	if ui.jsonMode {
		return nil
	}
	if ui.progress == nil {
		ui.progress = mpb.New(mpb.WithWidth(64), mpb.WithOutput(os.Stderr))
	}

	return ui.progress.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DSyncSpaceR}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WC{W: 5}),
			decor.OnComplete(
				decor.Elapsed(decor.ET_STYLE_GO, decor.WC{W: 12}),
				" done",
			),
		),
	)
}

type border struct {
	horizontal, vertical               string
	topLeft, topMid, topRight          string
	midLeft, midMid, midRight          string
	bottomLeft, bottomMid, bottomRight string
}

var (
	boxBorder   = border{"─", "│", "┌", "┬", "┐", "├", "┼", "┤", "└", "┴", "┘"}
	asciiBorder = border{"-", "|", "+", "+", "+", "+", "+", "+", "+", "+", "+"}
)

// Table prints a formatted table.
func (ui *UI) Table(headers []string, rows [][]string) {
	if ui.jsonMode || len(headers) == 0 {
		return
	}

	b := boxBorder
	paint := color.New(color.FgCyan, color.Bold).SprintFunc()
	if ui.noColor {
		b = asciiBorder
		paint = fmt.Sprint
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	rule := func(left, mid, right string) {
		var sb strings.Builder
		sb.WriteString(paint(left))
		for i, w := range widths {
			sb.WriteString(strings.Repeat(b.horizontal, w+2))
			if i < len(widths)-1 {
				sb.WriteString(paint(mid))
			}
		}
		sb.WriteString(paint(right))
		fmt.Fprintln(ui.out, sb.String())
	}

	row := func(cells []string, sep string) {
		var sb strings.Builder
		sb.WriteString(sep)
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(" " + cell + strings.Repeat(" ", widths[i]-displayWidth(cell)) + " ")
			sb.WriteString(sep)
		}
		fmt.Fprintln(ui.out, sb.String())
	}

	rule(b.topLeft, b.topMid, b.topRight)
	row(headers, paint(b.vertical))
	rule(b.midLeft, b.midMid, b.midRight)
	for _, r := range rows {
		row(r, b.vertical)
	}
	rule(b.bottomLeft, b.bottomMid, b.bottomRight)
}

// Section prints a section header.
func (ui *UI) Section(title string) {
	if ui.jsonMode {
		return
	}
	header := fmt.Sprintf("━━━ %s ━━━", strings.ToUpper(title))
	if !ui.noColor {
		header = color.New(color.FgMagenta, color.Bold).Sprint(header)
	}
	fmt.Fprintf(ui.out, "\n%s\n\n", header)
}

// KeyValue prints a key-value pair.
func (ui *UI) KeyValue(key string, value interface{}) {
	if ui.jsonMode {
		return
	}
	label := fmt.Sprintf("  %s: ", key)
	if !ui.noColor {
		label = color.New(color.FgYellow).Sprint(label)
	}
	fmt.Fprintf(ui.out, "%s%v\n", label, value)
}

// Newline prints a newline.
func (ui *UI) Newline() {
	if !ui.jsonMode {
		fmt.Fprintln(ui.out)
	}
}

// displayWidth counts runes so ₹ and – pad like single columns.
func displayWidth(s string) int {
	return len([]rune(s))
}

// IsTerminal checks if stdout is a terminal.
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
