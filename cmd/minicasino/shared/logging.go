package shared

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// SetupLogger builds the root logger at the named level. Unknown levels
// fall back to info.
func SetupLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
