package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
	"github.com/mattn/go-isatty"
)

// Border is the line of hashes printed above and below every section title.
var Border = strings.Repeat("#", 60)

// bannerWidth is the space left for a title between the leading "# " and trailing " #".
const bannerWidth = 56

// out is where every log line goes. It defaults to color.Output so Windows consoles
// still render escape sequences.
var out io.Writer = color.Output

// Colorized printing functions for the different log levels. They behave like
// fmt.Fprintf with the text colored for the level.
var (
	info  = color.New(color.FgGreen).FprintfFunc()
	warn  = color.New(color.FgHiMagenta).FprintfFunc()
	errf  = color.New(color.FgRed).FprintfFunc()
	debug = color.New(color.FgCyan).FprintfFunc()
)

// debugEnabled gates Debug output. It is toggled by Init.
var debugEnabled bool

// Init enables or disables debug logging and colored output.
// Color is also disabled when NO_COLOR is set or the writer is not a terminal.
func Init(enableDebug, noColor bool) {
	debugEnabled = enableDebug
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	color.NoColor = noColor || noColorEnv || !isTerminal(out)
}

// SetOutput redirects all log output to w.
// Non-terminal writers never receive escape sequences.
func SetOutput(w io.Writer) {
	out = w
	if !isTerminal(w) {
		color.NoColor = true
	}
}

// Output returns the writer log lines are sent to.
func Output() io.Writer {
	return out
}

// Info logs informational messages in green.
func Info(format string, a ...any) {
	info(out, format, a...)
}

// Warn logs warning messages in bright magenta.
func Warn(format string, a ...any) {
	warn(out, format, a...)
}

// Error logs error messages in red.
func Error(format string, a ...any) {
	errf(out, format, a...)
}

// Debug logs debug messages in cyan when debug logging is enabled, otherwise it is a no-op.
func Debug(format string, a ...any) {
	if debugEnabled {
		debug(out, format, a...)
	}
}

// Plain writes an uncolored status line.
func Plain(format string, a ...any) {
	_, _ = fmt.Fprintf(out, format, a...)
}

// Banner prints a section title boxed between two borders:
//
//	############################################################
//	#               Checking System Requirements               #
//	############################################################
func Banner(title string) {
	Plain("%s\n", Border)
	Plain("# %s #\n", Center(title, bannerWidth))
	Plain("%s\n", Border)
}

// FootNote prints a closing line for a section, centered like the banner title.
func FootNote(note string) {
	Plain("# %s #\n", Center(note, bannerWidth))
}

// Center pads s with spaces to width, putting the odd space on the right.
// Strings already at or over width are returned unchanged.
func Center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
