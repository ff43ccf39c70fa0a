package format

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w should get terminal formatting: it must be a
// terminal, NO_COLOR unset, and TERM neither empty nor "dumb".
func IsTTY(w any) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	termEnv := os.Getenv("TERM")
	if termEnv == "dumb" || termEnv == "" {
		return false
	}

	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
