package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/javiermolinar/tiledash/internal/drag"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "tiledash-debug.log"

var (
	debugLog  = log.New(io.Discard)
	debugFile *os.File
)

// InitDebugLogger opens the debug log when enabled. Otherwise events are
// discarded.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = log.New(io.Discard)
		return nil
	}

	// Create log file in current directory with fixed name (easy to find)
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}
	debugFile = f
	debugLog = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           log.DebugLevel,
		Prefix:          "tui",
	})
	debugLog.Debug("debug start", "log_file", DebugLogPath)
	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugFile == nil {
		return
	}
	debugLog.Debug("debug end")
	_ = debugFile.Close()
	debugFile = nil
	debugLog = log.New(io.Discard)
}

// DebugLogger returns the logger shared with the drag controller.
func DebugLogger() *log.Logger {
	return debugLog
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	debugLog.Debug("key", "key", msg.String())
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	debugLog.Debug("mode", "from", from, "to", to, "reason", reason)
}

// LogPointer logs a mouse event routed to the drag controller.
func LogPointer(action string, p drag.Point, handled bool) {
	debugLog.Debug("pointer", "action", action, "at", p, "handled", handled)
}

// LogRelease logs the outcome of a drag.
func LogRelease(rel drag.Release) {
	if rel.Err != nil {
		debugLog.Warn("release", "mode", rel.Mode, "tile", rel.TileID, "err", rel.Err)
		return
	}
	debugLog.Debug("release", "mode", rel.Mode, "tile", rel.TileID,
		"changed", rel.Changed, "proposal", rel.Proposal)
}

// LogError logs an error.
func LogError(context string, err error) {
	debugLog.Error(context, "err", err)
}
