// Package clipboard copies text to the system clipboard, falling back to
// an OSC 52 escape sequence on terminals without a native clipboard
// (SSH sessions, headless boxes).
package clipboard

import (
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// Copy writes text to the system clipboard. If no native clipboard is
// available it emits OSC 52 directly to the controlling terminal, which
// terminal emulators translate into a clipboard write on the local side.
func Copy(text string) error {
	if err := clipboard.WriteAll(text); err == nil {
		return nil
	}
	return copyOSC52(text)
}

func copyOSC52(text string) error {
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer tty.Close()
	_, err = osc52.New(text).WriteTo(tty)
	return err
}
