package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("resolved") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("using manifest") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("using manifest") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("pin conflict") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Merged 3 files")

	out := buf.String()
	if !strings.Contains(out, "Merged 3 files (") || !strings.Contains(out, "s)") {
		t.Errorf("progress output = %q, want message with elapsed time", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without logger should return log.Default()")
	}

	custom := newLogger(io.Discard, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestVerboseFlag(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"--verbose", "platforms"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level after --verbose = %v, want debug", c.Logger.GetLevel())
	}
}
