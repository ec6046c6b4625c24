package tui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// The console copies exactly one thing, the current location string, so a
// best-effort shell-out to whatever clipboard tool is installed is enough.
type clipboardTool struct {
	name string
	args []string
}

func clipboardTools() []clipboardTool {
	switch runtime.GOOS {
	case "darwin":
		return []clipboardTool{{name: "pbcopy"}}
	case "windows":
		return []clipboardTool{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		// Wayland first, then the X11 tools.
		return []clipboardTool{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

// copyToClipboard pipes text into the first working clipboard tool for this
// platform.
func copyToClipboard(text string) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var firstErr error
	for _, tool := range clipboardTools() {
		path, err := exec.LookPath(tool.name)
		if err != nil {
			continue
		}
		cmd := exec.Command(path, tool.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", tool.name, err)
			}
			continue
		}
		return nil
	}
	if firstErr == nil {
		firstErr = errors.New("no clipboard tool found")
	}
	return firstErr
}
