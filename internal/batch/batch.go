// Package batch validates recorded card form inputs outside an interactive
// session.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/benx421/payment-gateway/cardform/internal/cardform"
	"github.com/benx421/payment-gateway/cardform/internal/validation"
	"gopkg.in/yaml.v3"
)

// ErrNoRecords is returned when a records document holds nothing to check.
var ErrNoRecords = errors.New("batch: no records")

type recordsFile struct {
	Records []validation.CardFormInput `json:"records" yaml:"records"`
}

// Decode reads a JSON or YAML document holding either a list of card form
// inputs or an object with a "records" list.
func Decode(r io.Reader, source string) ([]validation.CardFormInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", source, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("batch: file %s is empty", source)
	}

	records, ok := decodeJSON(data)
	if !ok {
		records, ok = decodeYAML(data)
	}
	if !ok {
		return nil, fmt.Errorf("batch: parse %s: invalid JSON or YAML", source)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoRecords, source)
	}
	return records, nil
}

func decodeJSON(data []byte) ([]validation.CardFormInput, bool) {
	var list []validation.CardFormInput
	if err := json.Unmarshal(data, &list); err == nil {
		return list, true
	}
	var file recordsFile
	if err := json.Unmarshal(data, &file); err == nil {
		return file.Records, true
	}
	return nil, false
}

func decodeYAML(data []byte) ([]validation.CardFormInput, bool) {
	var list []validation.CardFormInput
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, true
	}
	var file recordsFile
	if err := yaml.Unmarshal(data, &file); err == nil {
		return file.Records, true
	}
	return nil, false
}

// RecordResult is the verdict for one record. Card is the masked card number.
type RecordResult struct {
	Index int    `json:"index"`
	Card  string `json:"card,omitempty"`
	validation.ValidationResult
}

// Report collects the verdicts of one run.
type Report struct {
	CheckedAt time.Time      `json:"checkedAt"`
	Records   []RecordResult `json:"records"`
	Invalid   int            `json:"invalid"`
}

// Check validates every record against the same instant.
func Check(records []validation.CardFormInput, now time.Time) Report {
	report := Report{
		CheckedAt: now,
		Records:   make([]RecordResult, 0, len(records)),
	}
	for i, in := range records {
		result := validation.Validate(in, now)
		if !result.IsValid {
			report.Invalid++
		}
		report.Records = append(report.Records, RecordResult{
			Index:            i + 1,
			Card:             cardform.MaskCardNumber(in.CardNumber),
			ValidationResult: result,
		})
	}
	return report
}

// OK reports whether every record passed.
func (r Report) OK() bool {
	return r.Invalid == 0
}

// WriteJSON writes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("batch: encode report: %w", err)
	}
	return nil
}

// WriteText writes one line per record, followed by its field errors in form
// order, then a summary line.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for _, rec := range r.Records {
		status := "ok"
		if !rec.IsValid {
			status = "invalid"
		}
		card := rec.Card
		if card == "" {
			card = "-"
		}
		fmt.Fprintf(&b, "#%d %s %s\n", rec.Index, card, status)
		for _, field := range validation.Fields() {
			if msg, ok := rec.Error(field); ok {
				fmt.Fprintf(&b, "    %s: %s\n", field, msg)
			}
		}
	}
	fmt.Fprintf(&b, "%d checked, %d invalid\n", len(r.Records), r.Invalid)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("batch: write report: %w", err)
	}
	return nil
}
