// Package output publishes transcript text to the system clipboard.
package output

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"

	"murmur/internal/config"
)

// writeAll is swappable for tests; the library shells out to the platform
// clipboard tool (wl-copy, xclip, or xsel on Linux).
var writeAll = clipboard.WriteAll

// Writer copies transcript text to the clipboard, through an explicitly
// configured command or the library backend when none is set.
type Writer struct {
	argv []string
}

// NewWriter constructs a clipboard writer from the clipboard_cmd setting.
func NewWriter(cfg config.CommandConfig) *Writer {
	return &Writer{argv: cfg.Argv}
}

// Copy publishes text to the clipboard. Empty text is a no-op.
func (w *Writer) Copy(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	if len(w.argv) > 0 {
		cmdCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := runCommandWithInput(cmdCtx, w.argv, text); err != nil {
			return fmt.Errorf("set clipboard: %w", err)
		}
		return nil
	}

	if err := writeAll(text); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}
	return nil
}

// runCommandWithInput executes argv and writes input to its stdin.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}
