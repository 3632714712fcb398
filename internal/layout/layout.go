// Package layout describes how the card form is presented: field labels,
// placeholders, input masks and ordering. The description is an OpenAPI 3
// document whose submitCardForm request body lists the form fields.
package layout

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/benx421/payment-gateway/cardform/internal/validation"
	"github.com/getkin/kin-openapi/openapi3"
)

// OperationID identifies the operation whose request body defines the form.
const OperationID = "submitCardForm"

// Extension keys read from field schemas.
const (
	extPlaceholder = "x-placeholder"
	extMask        = "x-mask"
	extOrder       = "x-order"
)

//go:embed cardform.yaml
var embedded []byte

// FieldSpec is the presentation of one form field.
type FieldSpec struct {
	Field       validation.Field
	Label       string
	Placeholder string
	Help        string
	Mask        string
	MaxLength   int
	Required    bool
	Order       int
}

// Layout is the ordered set of fields making up the card form.
type Layout struct {
	Title  string
	Fields []FieldSpec
}

// Field returns the spec for field.
func (l Layout) Field(field validation.Field) (FieldSpec, bool) {
	for _, spec := range l.Fields {
		if spec.Field == field {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Masks returns the input mask of every masked field.
func (l Layout) Masks() map[validation.Field]string {
	out := make(map[validation.Field]string, len(l.Fields))
	for _, spec := range l.Fields {
		if spec.Mask != "" {
			out[spec.Field] = spec.Mask
		}
	}
	return out
}

// Default returns the layout embedded in the binary.
func Default(ctx context.Context) (Layout, error) {
	return Parse(ctx, embedded)
}

// Load reads the layout at path, or the embedded layout when path is empty.
func Load(ctx context.Context, path string) (Layout, error) {
	if strings.TrimSpace(path) == "" {
		return Default(ctx)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("layout: read %s: %w", path, err)
	}
	return Parse(ctx, raw)
}

// Parse builds a Layout from a JSON or YAML OpenAPI document.
func Parse(ctx context.Context, raw []byte) (Layout, error) {
	if len(raw) == 0 {
		return Layout{}, errors.New("layout: document is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return Layout{}, fmt.Errorf("layout: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Layout{}, fmt.Errorf("layout: validate document: %w", err)
	}

	op := findOperation(doc, OperationID)
	if op == nil {
		return Layout{}, fmt.Errorf("layout: operation %q not found", OperationID)
	}

	schema, err := requestSchema(op)
	if err != nil {
		return Layout{}, err
	}

	out := Layout{Title: op.Summary}
	if out.Title == "" && doc.Info != nil {
		out.Title = doc.Info.Title
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	known := make(map[validation.Field]bool)
	for _, field := range validation.Fields() {
		known[field] = true
	}

	for name, ref := range schema.Properties {
		field := validation.Field(name)
		if !known[field] {
			return Layout{}, fmt.Errorf("layout: unknown field %q", name)
		}
		if ref == nil || ref.Value == nil {
			return Layout{}, fmt.Errorf("layout: field %q has no schema", name)
		}
		out.Fields = append(out.Fields, fieldSpec(field, ref.Value, required[name]))
	}

	for _, field := range validation.Fields() {
		if _, ok := out.Field(field); !ok {
			return Layout{}, fmt.Errorf("layout: field %q is missing", field)
		}
	}

	sort.SliceStable(out.Fields, func(i, j int) bool {
		if out.Fields[i].Order != out.Fields[j].Order {
			return out.Fields[i].Order < out.Fields[j].Order
		}
		return out.Fields[i].Field < out.Fields[j].Field
	})

	return out, nil
}

func findOperation(doc *openapi3.T, id string) *openapi3.Operation {
	if doc.Paths == nil {
		return nil
	}
	for _, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == id {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) (*openapi3.Schema, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil, fmt.Errorf("layout: operation %q has no request body", op.OperationID)
	}
	mt, ok := op.RequestBody.Value.Content["application/json"]
	if !ok || mt.Schema == nil || mt.Schema.Value == nil {
		return nil, fmt.Errorf("layout: operation %q has no application/json schema", op.OperationID)
	}
	return mt.Schema.Value, nil
}

func fieldSpec(field validation.Field, schema *openapi3.Schema, required bool) FieldSpec {
	spec := FieldSpec{
		Field:       field,
		Label:       schema.Title,
		Help:        schema.Description,
		Placeholder: stringExtension(schema.Extensions, extPlaceholder),
		Mask:        stringExtension(schema.Extensions, extMask),
		Order:       intExtension(schema.Extensions, extOrder),
		Required:    required,
	}
	if spec.Label == "" {
		spec.Label = string(field)
	}
	if schema.MaxLength != nil {
		spec.MaxLength = int(*schema.MaxLength)
	}
	return spec
}

func stringExtension(ext map[string]any, key string) string {
	if value, ok := ext[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func intExtension(ext map[string]any, key string) int {
	switch value := ext[key].(type) {
	case float64:
		return int(value)
	case int:
		return value
	case int64:
		return int(value)
	default:
		return 0
	}
}
