package runtime

import (
	"io"
	"log/slog"
	"strings"
)

// libraryLogWriter redirects the output of libraries that log through an
// io.Writer (gin, paho) to the application slog.Logger, tagged with the
// component it comes from.
type libraryLogWriter struct {
	logger    *slog.Logger
	component string
	isError   bool
}

// NewLogWriter returns a writer logging each write as one slog record.
func NewLogWriter(logger *slog.Logger, component string, isError bool) io.Writer {
	return &libraryLogWriter{logger: logger, component: component, isError: isError}
}

func (w *libraryLogWriter) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	// Libraries terminate their lines, slog adds its own
	msg := strings.TrimRight(string(p), "\r\n")

	if w.isError {
		w.logger.Error(msg, "component", w.component)
	} else {
		w.logger.Debug(msg, "component", w.component)
	}

	return len(p), nil
}
