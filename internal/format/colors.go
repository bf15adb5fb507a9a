package format

import (
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

var (
	Green   = color.New(color.FgGreen).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Cyan    = color.New(color.FgCyan).SprintFunc()
	Magenta = color.New(color.FgMagenta).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
	Dim     = color.New(color.Faint).SprintFunc()
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes to get the visible text.
func StripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

// PadRight pads a coloured string to the given visible width.
func PadRight(str string, width int) string {
	visibleLen := len([]rune(StripANSI(str)))
	if visibleLen < width {
		return str + strings.Repeat(" ", width-visibleLen)
	}
	return str
}

// ColorCallType picks a colour per call kind so creations and delegate
// calls stand out in the tree.
func ColorCallType(callType string) string {
	switch strings.ToUpper(callType) {
	case "CREATE", "CREATE2":
		return Magenta(callType)
	case "DELEGATECALL", "CALLCODE":
		return Yellow(callType)
	case "STATICCALL":
		return Dim(callType)
	case "SELFDESTRUCT":
		return Red(callType)
	default:
		return Cyan(callType)
	}
}

// DisableColors turns off colour output (for non-TTY or JSON mode).
func DisableColors() {
	color.NoColor = true
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
