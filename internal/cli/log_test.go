package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Analyzed x → y")

	out := buf.String()
	if !strings.Contains(out, "Analyzed x → y (") || !strings.Contains(out, "ms)") {
		t.Errorf("progress.done() output = %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), custom)) != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	h := logHooks{newLogger(&buf, log.DebugLevel)}
	h.OnLoadStart(ctx, "dagify.dag")
	h.OnLoadComplete(ctx, "dagify.dag", 8, time.Millisecond, nil)
	h.OnAnalyzeStart(ctx, "x", "y")
	h.OnAnalyzeComplete(ctx, 0, time.Millisecond, errors.New("boom"))
	h.OnRenderStart(ctx, []string{"svg"})
	h.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)
	h.OnCacheHit(ctx, "analysis")
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 128)

	out := buf.String()
	for _, want := range []string{
		"loading graph", "loaded graph", "nodes=8",
		"searching adjustment sets", "adjustment search failed", "err=boom",
		"rendering", "rendered",
		"cache hit", "cache miss", "cache set", "bytes=128",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	quiet := logHooks{newLogger(&buf, log.InfoLevel)}
	quiet.OnCacheHit(ctx, "analysis")
	if buf.Len() != 0 {
		t.Errorf("hooks should log at debug level, got %q", buf.String())
	}
}
