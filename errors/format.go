package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders violations for display in a terminal.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new violation formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

// Colors used for violation formatting
var (
	colorErrorBold = color.New(color.FgHiRed, color.Bold)
	colorCode      = color.New(color.FgHiBlack)
	colorLocation  = color.New(color.FgCyan)
	colorPipe      = color.New(color.FgHiBlack)
	colorCaret     = color.New(color.FgHiRed)
	colorNote      = color.New(color.FgHiBlue)
)

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

// Format renders v in a compiler-like style. When source is non-empty the
// offending line is shown with a caret under the node's start column.
func (f *Formatter) Format(v *Violation, source string) string {
	var b strings.Builder
	pos := v.Position()
	lineNumWidth := len(fmt.Sprintf("%d", pos.LineNumber()))
	if lineNumWidth < 2 {
		lineNumWidth = 2
	}
	padding := strings.Repeat(" ", lineNumWidth)

	// Header: "violation[E4001]: message"
	b.WriteString(f.paint(colorErrorBold, "violation"))
	b.WriteString(f.paint(colorCode, "["+string(v.Code)+"]"))
	b.WriteString(": ")
	b.WriteString(v.Message)
	b.WriteString("\n")

	if pos.IsValid() {
		b.WriteString(padding)
		b.WriteString(f.paint(colorLocation, "--> "+pos.String()))
		b.WriteString("\n")
	}

	if line, ok := sourceLine(source, pos.Line); ok && pos.IsValid() {
		b.WriteString(padding + f.paint(colorPipe, " |") + "\n")
		b.WriteString(fmt.Sprintf("%*d", lineNumWidth, pos.LineNumber()))
		b.WriteString(f.paint(colorPipe, " | "))
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(padding + f.paint(colorPipe, " | "))
		b.WriteString(strings.Repeat(" ", pos.Column))
		b.WriteString(f.paint(colorCaret, "^"))
		b.WriteString("\n")
	}

	if v.Context != "" {
		b.WriteString(padding + f.paint(colorPipe, " = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(v.Code.Description() + ": " + v.Context)
		b.WriteString("\n")
	}
	return b.String()
}

func sourceLine(source string, line int) (string, bool) {
	if source == "" || line < 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line >= len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line], "\r"), true
}
