package app

import (
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

func (app *Application) handleClipboard() bool {
	d := app.state.ActiveDoc()
	if d == nil {
		return false
	}
	if app.clipboardAvail && len(app.clipboardCmd) > 0 {
		target := normalizeClipboardPath(d.Path, runtime.GOOS)
		cmd := exec.Command(app.clipboardCmd[0], app.clipboardCmd[1:]...)
		cmd.Stdin = strings.NewReader(target)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err == nil {
			app.state.Notice = "path copied"
		} else {
			app.state.Notice = "clipboard command failed"
		}
	} else {
		app.state.Notice = "no clipboard command available"
	}
	return true
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}
