package cmd

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

// setupConsoleLogging logs to stderr: everything under --debug, otherwise
// warnings and errors only so command output stays readable.
func setupConsoleLogging() {
	opts := &tint.Options{Level: slog.LevelWarn, TimeFormat: time.Kitchen}
	if debug {
		opts = &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "2006-01-02 15:04 05.0000",
			AddSource:  true,
		}
	}
	setLogger(tint.NewHandler(os.Stderr, opts))
}

func setupFileLogging(w io.Writer) {
	setLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// setLogger installs h behind the slog-context handler, which adds
// attributes stored on the context (such as request ids) to each record.
func setLogger(h slog.Handler) {
	slog.SetDefault(slog.New(slogctx.NewHandler(h, nil)))
}
