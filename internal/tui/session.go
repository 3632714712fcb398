// Package tui runs the card form as an interactive terminal session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/benx421/payment-gateway/cardform/internal/cardform"
	"github.com/benx421/payment-gateway/cardform/internal/layout"
	"github.com/benx421/payment-gateway/cardform/internal/validation"
)

// DefaultMaxSubmits bounds how many rejected submissions a session tolerates.
const DefaultMaxSubmits = 5

// Session drives one Form through the prompts described by a Layout.
type Session struct {
	driver           PromptDriver
	layout           layout.Layout
	form             *cardform.Form
	logger           *slog.Logger
	validateOnChange bool
	maxSubmits       int
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger. Only field names are logged, never values.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidateOnChange toggles checking each field as it is entered.
func WithValidateOnChange(enabled bool) SessionOption {
	return func(s *Session) {
		s.validateOnChange = enabled
	}
}

// WithMaxSubmits sets the rejected submission limit.
func WithMaxSubmits(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxSubmits = n
		}
	}
}

// NewSession returns a session prompting through driver.
func NewSession(driver PromptDriver, lay layout.Layout, form *cardform.Form, opts ...SessionOption) *Session {
	s := &Session{
		driver:           driver,
		layout:           lay,
		form:             form,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		validateOnChange: true,
		maxSubmits:       DefaultMaxSubmits,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Run collects card details until a submission passes, then shows the
// success view. Choosing Continue clears the form and starts over; declining
// ends the session with the last confirmation.
func (s *Session) Run(ctx context.Context) (*cardform.Confirmation, error) {
	if s.driver == nil || s.form == nil {
		return nil, errors.New("tui: session requires a driver and a form")
	}
	if len(s.layout.Fields) == 0 {
		return nil, errors.New("tui: layout has no fields")
	}

	for {
		confirmation, err := s.collect(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.showSuccess(ctx, confirmation); err != nil {
			return nil, err
		}
		again, err := s.driver.Confirm(ctx, ConfirmConfig{
			Message: cardform.ContinueLabel,
			Help:    "Add another card",
		})
		if err != nil {
			return nil, err
		}
		if !again {
			return confirmation, nil
		}
		s.form.Continue()
		s.logger.Debug("card form reset")
	}
}

func (s *Session) collect(ctx context.Context) (*cardform.Confirmation, error) {
	if s.layout.Title != "" {
		if err := s.driver.Info(ctx, s.layout.Title); err != nil {
			return nil, err
		}
	}

	pending := s.layout.Fields
	for attempt := 1; attempt <= s.maxSubmits; attempt++ {
		for _, spec := range pending {
			if err := s.promptField(ctx, spec); err != nil {
				return nil, err
			}
		}
		if err := s.showPreview(ctx); err != nil {
			return nil, err
		}

		result, confirmation := s.form.Submit()
		if result.IsValid {
			s.logger.Info("card form submitted",
				"attempt", attempt,
				"reference", confirmation.Reference,
			)
			return confirmation, nil
		}

		pending = s.failing(result)
		s.logger.Info("card form rejected",
			"attempt", attempt,
			"fields", fieldNames(pending),
		)
		if err := s.driver.Info(ctx, s.describe(result)); err != nil {
			return nil, err
		}
	}

	s.logger.Warn("card form abandoned", "max_submits", s.maxSubmits)
	return nil, fmt.Errorf("%w: %d attempts", ErrTooManyAttempts, s.maxSubmits)
}

func (s *Session) promptField(ctx context.Context, spec layout.FieldSpec) error {
	cfg := InputConfig{
		Message: spec.Label,
		Default: s.form.Values().Value(spec.Field),
		Help:    helpText(spec),
	}
	if s.validateOnChange {
		cfg.Validator = func(raw string) error {
			if msg, ok := s.form.CheckValue(spec.Field, raw); !ok {
				return errors.New(msg)
			}
			return nil
		}
	}

	raw, err := s.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	s.form.Set(spec.Field, raw)
	s.form.Blur(spec.Field)
	s.logger.Debug("field entered", "field", string(spec.Field))
	return nil
}

func (s *Session) showPreview(ctx context.Context) error {
	var b strings.Builder
	if err := s.form.Preview().Render(&b); err != nil {
		return err
	}
	return s.driver.Info(ctx, strings.TrimRight(b.String(), "\n"))
}

func (s *Session) showSuccess(ctx context.Context, c *cardform.Confirmation) error {
	lines := []string{
		cardform.SuccessTitle,
		cardform.SuccessMessage,
		"Reference: " + c.Reference,
		"Card:      " + c.MaskedNumber,
	}
	return s.driver.Info(ctx, strings.Join(lines, "\n"))
}

// failing returns the layout entries of every field result rejected, in
// layout order.
func (s *Session) failing(result validation.ValidationResult) []layout.FieldSpec {
	var out []layout.FieldSpec
	for _, spec := range s.layout.Fields {
		if _, ok := result.Error(spec.Field); ok {
			out = append(out, spec)
		}
	}
	return out
}

func (s *Session) describe(result validation.ValidationResult) string {
	var b strings.Builder
	for i, spec := range s.failing(result) {
		if i > 0 {
			b.WriteByte('\n')
		}
		msg, _ := result.Error(spec.Field)
		fmt.Fprintf(&b, "  x %s: %s", spec.Label, msg)
	}
	return b.String()
}

func helpText(spec layout.FieldSpec) string {
	switch {
	case spec.Placeholder == "":
		return spec.Help
	case spec.Help == "":
		return spec.Placeholder
	default:
		return fmt.Sprintf("%s (%s)", spec.Help, spec.Placeholder)
	}
}

func fieldNames(specs []layout.FieldSpec) []string {
	out := make([]string, 0, len(specs))
	for _, spec := range specs {
		out = append(out, string(spec.Field))
	}
	return out
}
