package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Console writes styled messages to an output stream.
type Console struct {
	out io.Writer

	success *color.Color
	warning *color.Color
	failure *color.Color
	info    *color.Color
	user    *color.Color
	bot     *color.Color
}

// NewConsole creates a console writing to out. Colors are dropped when noColor is set.
func NewConsole(out io.Writer, noColor bool) *Console {
	c := &Console{
		out:     out,
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		info:    color.New(color.FgCyan),
		user:    color.New(color.FgBlue, color.Bold),
		bot:     color.New(color.FgMagenta, color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.success, c.warning, c.failure, c.info, c.user, c.bot} {
			col.DisableColor()
		}
	}
	return c
}

// Writer returns the underlying output stream.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Success displays a success message.
func (c *Console) Success(format string, args ...interface{}) {
	c.success.Fprintf(c.out, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Warning displays a warning message.
func (c *Console) Warning(format string, args ...interface{}) {
	c.warning.Fprintf(c.out, "⚠ %s\n", fmt.Sprintf(format, args...))
}

// Error displays an error message.
func (c *Console) Error(format string, args ...interface{}) {
	c.failure.Fprintf(c.out, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Info displays an informational message.
func (c *Console) Info(format string, args ...interface{}) {
	c.info.Fprintf(c.out, "ℹ %s\n", fmt.Sprintf(format, args...))
}

// UserPrompt writes the label shown before user input.
func (c *Console) UserPrompt() {
	c.user.Fprint(c.out, "You: ")
}

// Bot displays a reply from the assistant.
func (c *Console) Bot(text string) {
	c.bot.Fprint(c.out, "Bot: ")
	fmt.Fprintln(c.out, text)
}

// Newline prints a newline.
func (c *Console) Newline() {
	fmt.Fprintln(c.out)
}

// Section displays a section header.
func (c *Console) Section(title string) {
	fmt.Fprintf(c.out, "\n%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
}

// Box displays text in a box with borders.
func (c *Console) Box(title, content string) {
	lines := strings.Split(content, "\n")
	width := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	if width < 40 {
		width = 40
	}

	rule := strings.Repeat("─", width+2)
	fmt.Fprintf(c.out, "┌%s┐\n", rule)
	if title != "" {
		fmt.Fprintf(c.out, "│ %s │\n", pad(title, width))
		fmt.Fprintf(c.out, "├%s┤\n", rule)
	}
	for _, line := range lines {
		fmt.Fprintf(c.out, "│ %s │\n", pad(line, width))
	}
	fmt.Fprintf(c.out, "└%s┘\n", rule)
}

// pad right-pads s with spaces to width runes. fmt's %-*s counts bytes.
func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// FormatList formats a list of items as bullets.
func FormatList(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  • %s\n", item))
	}
	return sb.String()
}
