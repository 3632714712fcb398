package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecords = `
records:
  - name: Jane Appleseed
    cardNumber: "4539 1488 0343 6467"
    mm: "09"
    yy: "26"
    cvc: "123"
`

const mixedRecords = `[
  {"name": "Jane Appleseed", "cardNumber": "4539148803436467", "mm": "09", "yy": "26", "cvc": "123"},
  {"name": "Jane", "cardNumber": "4539148803436467", "mm": "13", "yy": "26", "cvc": "123"}
]`

func writeRecords(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")

	tests := []struct {
		name       string
		args       func(t *testing.T) []string
		wantCode   int
		wantStdout []string
		wantStderr string
	}{
		{
			name: "all valid",
			args: func(t *testing.T) []string {
				return []string{"-f", writeRecords(t, validRecords), "-now", "2024-06-01"}
			},
			wantCode:   exitOK,
			wantStdout: []string{"#1 **** **** **** 6467 ok", "1 checked, 0 invalid"},
		},
		{
			name: "invalid record",
			args: func(t *testing.T) []string {
				return []string{"-f", writeRecords(t, mixedRecords), "-now", "2024-06-01"}
			},
			wantCode: exitInvalid,
			wantStdout: []string{
				"#2 **** **** **** 6467 invalid",
				"    name: You should include both first and last names",
				"    mm: Month must be valid",
			},
		},
		{
			name: "window follows pinned date",
			args: func(t *testing.T) []string {
				return []string{"-f", writeRecords(t, validRecords), "-now", "2000-01-01"}
			},
			wantCode:   exitInvalid,
			wantStdout: []string{"    yy: Year must be between 00 and 15"},
		},
		{
			name: "json output",
			args: func(t *testing.T) []string {
				return []string{"-f", writeRecords(t, validRecords), "-now", "2024-06-01", "-format", "json"}
			},
			wantCode:   exitOK,
			wantStdout: []string{`"isValid": true`, `"invalid": 0`},
		},
		{
			name:       "missing file flag",
			args:       func(*testing.T) []string { return nil },
			wantCode:   exitUsage,
			wantStderr: "-f is required",
		},
		{
			name: "bad format",
			args: func(t *testing.T) []string {
				return []string{"-f", writeRecords(t, validRecords), "-format", "xml"}
			},
			wantCode:   exitUsage,
			wantStderr: `unknown format "xml"`,
		},
		{
			name: "bad date",
			args: func(t *testing.T) []string {
				return []string{"-f", writeRecords(t, validRecords), "-now", "01/06/2024"}
			},
			wantCode:   exitUsage,
			wantStderr: "want YYYY-MM-DD",
		},
		{
			name: "missing file",
			args: func(t *testing.T) []string {
				return []string{"-f", filepath.Join(t.TempDir(), "nope.yaml")}
			},
			wantCode: exitUsage,
		},
		{
			name:     "unknown flag",
			args:     func(*testing.T) []string { return []string{"-x"} },
			wantCode: exitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			code := run(tt.args(t), &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr.String())
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestParseNow(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tbilisi")
	require.NoError(t, err)
	wall := time.Date(2030, time.March, 3, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return wall }

	got, err := parseNow("", loc, clock)
	require.NoError(t, err)
	assert.Equal(t, wall, got)

	got, err = parseNow("2024-06-01", loc, clock)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, loc), got)

	got, err = parseNow("2024-06-01", nil, clock)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.Location())

	_, err = parseNow("tomorrow", loc, clock)
	assert.Error(t, err)
}
