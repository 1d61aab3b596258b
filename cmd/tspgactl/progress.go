package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"

	"tspga/internal/evo"
)

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "auto":
		if isTerminal(w) {
			return slog.New(slog.NewTextHandler(w, opts)), nil
		}
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// progressPrinter writes at most one line per interval; improvements are
// always printed.
type progressPrinter struct {
	w        io.Writer
	sometime rate.Sometimes
}

func newProgressPrinter(w io.Writer, interval time.Duration) *progressPrinter {
	return &progressPrinter{w: w, sometime: rate.Sometimes{Interval: interval}}
}

func (p *progressPrinter) observe(progress evo.Progress) {
	if progress.Improved {
		p.print(progress)
		return
	}
	p.sometime.Do(func() { p.print(progress) })
}

func (p *progressPrinter) print(progress evo.Progress) {
	fmt.Fprintf(p.w, "gen %s best %s median %s dups %s elapsed %s\n",
		humanize.Comma(int64(progress.Generation)),
		humanize.CommafWithDigits(progress.BestScore, 2),
		humanize.CommafWithDigits(progress.Summary.Median, 2),
		humanize.Comma(progress.Duplicates),
		progress.Elapsed.Round(time.Millisecond),
	)
}
