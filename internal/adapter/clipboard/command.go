package clipboard

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandReader runs name with args and returns its stdout without the
// trailing newline the paste tools append.
func CommandReader(name string, args ...string) ReadFunc {
	return func(ctx context.Context) (string, error) {
		cmd := exec.CommandContext(ctx, name, args...)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("clipboard: %s: %w", name, err)
		}
		// keep raw as-is; trimming happens in core
		return strings.TrimRight(out.String(), "\n"), nil
	}
}

// Detect returns a watcher over the first paste command found on PATH.
func Detect(interval time.Duration) (*PollWatcher, error) {
	for _, c := range pasteCommands {
		if _, err := exec.LookPath(c[0]); err == nil {
			return NewPollWatcher(CommandReader(c[0], c[1:]...), interval), nil
		}
	}
	return nil, ErrUnsupported
}
