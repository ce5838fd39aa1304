// Package logging builds the go-kit logger shared by the commands.
package logging

import (
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger writing to w, stamped with time and caller and
// filtered to lvl (debug, info, warn or error; unknown values mean info).
func New(w io.Writer, lvl string) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	return level.NewFilter(logger, allow(lvl))
}

// Nop discards everything.
func Nop() log.Logger { return log.NewNopLogger() }

func allow(lvl string) level.Option {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}
