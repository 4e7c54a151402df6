//go:build !windows

package exec

import (
	"os"
	"os/exec"

	"golang.org/x/term"
)

// attachTerminal wires the command to the controlling terminal so an
// interactive passphrase prompt can reach the user even when our own
// standard streams are redirected.
func attachTerminal(cmd *exec.Cmd) func() {
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		cmd.Stdin = tty
		cmd.Stdout = tty
		cmd.Stderr = tty
		return func() { _ = tty.Close() }
	}

	cmd.Stdin = os.Stdin
	if term.IsTerminal(int(os.Stdout.Fd())) {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr
	return func() {}
}

// hideWindow is a no-op outside Windows.
func hideWindow(*exec.Cmd) {}
