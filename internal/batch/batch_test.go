package batch

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benx421/payment-gateway/cardform/internal/validation"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkedAt = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

var janeInput = validation.CardFormInput{
	Name:        "Jane Appleseed",
	CardNumber:  "4539 1488 0343 6467",
	ExpiryMonth: "09",
	ExpiryYear:  "26",
	CVC:         "123",
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "json list",
			doc:  `[{"name":"Jane Appleseed","cardNumber":"4539 1488 0343 6467","mm":"09","yy":"26","cvc":"123"}]`,
		},
		{
			name: "json records object",
			doc:  `{"records":[{"name":"Jane Appleseed","cardNumber":"4539 1488 0343 6467","mm":"09","yy":"26","cvc":"123"}]}`,
		},
		{
			name: "yaml list",
			doc: `
- name: Jane Appleseed
  cardNumber: "4539 1488 0343 6467"
  mm: "09"
  yy: "26"
  cvc: "123"
`,
		},
		{
			name: "yaml records object",
			doc: `
records:
  - name: Jane Appleseed
    cardNumber: "4539 1488 0343 6467"
    mm: "09"
    yy: "26"
    cvc: "123"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode(strings.NewReader(tt.doc), "records")
			require.NoError(t, err)
			if diff := cmp.Diff([]validation.CardFormInput{janeInput}, records); diff != "" {
				t.Fatalf("records mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("  \n"), "blank.yaml")
	assert.EqualError(t, err, "batch: file blank.yaml is empty")

	_, err = Decode(strings.NewReader("records: [}"), "broken.yaml")
	assert.EqualError(t, err, "batch: parse broken.yaml: invalid JSON or YAML")

	_, err = Decode(strings.NewReader("[]"), "empty.json")
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = Decode(errReader{}, "records.yaml")
	assert.ErrorContains(t, err, "disk gone")
}

func TestCheck(t *testing.T) {
	bad := janeInput
	bad.CardNumber = "1234 5678 1234 5678"
	bad.ExpiryYear = "20"

	report := Check([]validation.CardFormInput{janeInput, bad, {}}, checkedAt)

	require.Len(t, report.Records, 3)
	assert.False(t, report.OK())
	assert.Equal(t, 2, report.Invalid)
	assert.Equal(t, checkedAt, report.CheckedAt)

	assert.Equal(t, 1, report.Records[0].Index)
	assert.True(t, report.Records[0].IsValid)
	assert.Equal(t, "**** **** **** 6467", report.Records[0].Card)

	want := map[validation.Field]string{
		validation.FieldCardNumber: "Card number is not valid",
		validation.FieldYear:       "Year must be between 24 and 39",
	}
	if diff := cmp.Diff(want, report.Records[1].FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, report.Records[2].FieldErrors, 5)
	assert.Empty(t, report.Records[2].Card)
}

func TestCheck_AllValid(t *testing.T) {
	report := Check([]validation.CardFormInput{janeInput}, checkedAt)
	assert.True(t, report.OK())
}

func TestReport_WriteText(t *testing.T) {
	bad := janeInput
	bad.Name = "Jane"
	report := Check([]validation.CardFormInput{janeInput, bad, {}}, checkedAt)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf))

	want := strings.Join([]string{
		"#1 **** **** **** 6467 ok",
		"#2 **** **** **** 6467 invalid",
		"    name: You should include both first and last names",
		"#3 - invalid",
		"    name: Name is required",
		"    cardNumber: Card number is required",
		"    mm: MM is required",
		"    yy: YY is required",
		"    cvc: CVC is required",
		"3 checked, 2 invalid",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestReport_WriteJSON(t *testing.T) {
	bad := janeInput
	bad.CVC = "12"
	report := Check([]validation.CardFormInput{bad}, checkedAt)

	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(1), decoded["invalid"])

	records := decoded["records"].([]any)
	require.Len(t, records, 1)
	record := records[0].(map[string]any)
	assert.Equal(t, false, record["isValid"])
	assert.Equal(t, "**** **** **** 6467", record["card"])
	assert.Equal(t, map[string]any{"cvc": "CVC must be at least 3 characters"}, record["fieldErrors"])
	assert.NotContains(t, buf.String(), "min_length", "error codes stay internal")
}
