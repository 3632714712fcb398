package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/benx421/payment-gateway/cardform/internal/batch"
	"github.com/benx421/payment-gateway/cardform/internal/config"
	"github.com/benx421/payment-gateway/cardform/internal/validation"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

const dateLayout = "2006-01-02"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cardcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("f", "", "records file (JSON or YAML, - for stdin)")
	nowFlag := fs.String("now", "", "validate as of this date (YYYY-MM-DD) instead of today")
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if err := config.LoadEnvFile(); err != nil {
		slog.Error("failed to load env file", "error", err)
		return exitUsage
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return exitUsage
	}
	logger := cfg.Logger.NewLogger()

	if *file == "" {
		fmt.Fprintln(stderr, "cardcheck: -f is required")
		fs.Usage()
		return exitUsage
	}
	outFormat := strings.ToLower(*format)
	if outFormat != "text" && outFormat != "json" {
		fmt.Fprintf(stderr, "cardcheck: unknown format %q\n", *format)
		return exitUsage
	}

	now, err := parseNow(*nowFlag, cfg.Form.Location, cfg.Form.Clock())
	if err != nil {
		fmt.Fprintf(stderr, "cardcheck: %v\n", err)
		return exitUsage
	}

	records, err := readRecords(*file)
	if err != nil {
		logger.Error("failed to read records", "file", *file, "error", err)
		return exitUsage
	}

	report := batch.Check(records, now)
	logger.Info("records checked",
		"file", *file,
		"checked", len(report.Records),
		"invalid", report.Invalid,
		"as_of", now.Format(dateLayout),
	)

	if outFormat == "json" {
		err = report.WriteJSON(stdout)
	} else {
		err = report.WriteText(stdout)
	}
	if err != nil {
		logger.Error("failed to write report", "error", err)
		return exitUsage
	}

	if !report.OK() {
		return exitInvalid
	}
	return exitOK
}

func parseNow(raw string, loc *time.Location, clock func() time.Time) (time.Time, error) {
	if raw == "" {
		return clock(), nil
	}
	if loc == nil {
		loc = time.UTC
	}
	now, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -now %q: want YYYY-MM-DD", raw)
	}
	return now, nil
}

func readRecords(path string) ([]validation.CardFormInput, error) {
	if path == "-" {
		return batch.Decode(os.Stdin, "stdin")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer func() { _ = f.Close() }()
	return batch.Decode(f, path)
}
