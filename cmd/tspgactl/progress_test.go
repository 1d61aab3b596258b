package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"tspga/internal/evo"
)

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, "debug", "auto")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("hello", "k", 1)
	if !strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("expected json output for a non-terminal writer, got %q", buf.String())
	}

	buf.Reset()
	logger, err = newLogger(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("new text logger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Fatalf("unexpected level filtering: %q", buf.String())
	}

	if _, err := newLogger(&buf, "loud", "text"); err == nil {
		t.Fatal("expected invalid level error")
	}
}

func TestProgressPrinterThrottles(t *testing.T) {
	var buf bytes.Buffer
	printer := newProgressPrinter(&buf, time.Hour)
	printer.observe(evo.Progress{Generation: 0, BestScore: 12345.678, Improved: true})
	printer.observe(evo.Progress{Generation: 1, BestScore: 12345.678})
	printer.observe(evo.Progress{Generation: 2, BestScore: 12345.678})
	printer.observe(evo.Progress{Generation: 3, BestScore: 12000, Improved: true, Duplicates: 1500})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 progress lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "best 12,345.68") {
		t.Fatalf("unexpected formatting: %q", lines[0])
	}
	if !strings.Contains(lines[2], "dups 1,500") {
		t.Fatalf("unexpected duplicates formatting: %q", lines[2])
	}
}
