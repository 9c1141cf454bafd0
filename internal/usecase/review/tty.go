package review

import (
	"os"

	"golang.org/x/term"
)

// IsTTY checks if the given file descriptor is a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// IsOutputTerminal checks if stdout is a TTY. CI runners and piped output
// report false, which switches the logger to JSON format.
func IsOutputTerminal() bool {
	return IsTTY(os.Stdout.Fd())
}
