package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/logging"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/navigation"
	"github.com/goliatone/go-formbuilder/pkg/widgets"
)

// ErrTooManyAttempts is returned when a step stays invalid after the
// configured number of attempts.
var ErrTooManyAttempts = errors.New("tui: step still invalid after maximum attempts")

const noneOption = "(none)"

// Filler drives a navigation session from a terminal. It prompts for every
// visible field of the current step, then advances or submits, re-prompting
// the step while it has errors.
type Filler struct {
	driver      PromptDriver
	widgets     *widgets.Registry
	theme       Theme
	logger      logging.Logger
	maxAttempts int
}

// New constructs a Filler with defaults (survey driver, built-in widgets).
func New(options ...Option) *Filler {
	f := &Filler{
		driver:  NewSurveyDriver(nil),
		widgets: widgets.NewRegistry(),
		theme:   DefaultTheme,
		logger:  logging.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Fill runs session to completion and returns the accepted submission.
func (f *Filler) Fill(ctx context.Context, session *navigation.Session) (model.Submission, error) {
	if ctx == nil {
		return model.Submission{}, errors.New("tui: context is required")
	}
	if session == nil {
		return model.Submission{}, ErrSessionRequired
	}

	attempts := 0
	for {
		if err := ctx.Err(); err != nil {
			return model.Submission{}, err
		}
		if err := f.announceStep(ctx, session); err != nil {
			return model.Submission{}, err
		}
		for _, field := range session.VisibleFields() {
			value, err := f.promptField(ctx, field, session.Value(field.ID))
			if err != nil {
				return model.Submission{}, err
			}
			if err := session.SetValue(field.ID, value); err != nil {
				return model.Submission{}, err
			}
		}

		if current, _ := session.Progress(); current > 1 {
			back, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Go back to the previous step?"})
			if err != nil {
				return model.Submission{}, err
			}
			if back {
				if _, err := session.Previous(); err != nil {
					return model.Submission{}, err
				}
				attempts = 0
				continue
			}
		}

		var (
			outcome navigation.Outcome
			err     error
		)
		if session.IsLastStep() {
			outcome, err = session.Submit(ctx)
		} else {
			outcome, err = session.Next()
		}
		if err != nil {
			return model.Submission{}, err
		}
		if outcome.Advanced {
			attempts = 0
			if outcome.State.Submitted {
				submission, _ := session.Submission()
				return submission, nil
			}
			continue
		}

		attempts++
		f.logger.Debug("tui: step %s blocked (attempt %d)", outcome.State, attempts)
		if err := f.reportIssues(ctx, session); err != nil {
			return model.Submission{}, err
		}
		if f.maxAttempts > 0 && attempts >= f.maxAttempts {
			return model.Submission{}, ErrTooManyAttempts
		}
	}
}

func (f *Filler) announceStep(ctx context.Context, session *navigation.Session) error {
	current, total := session.Progress()
	if total < 2 {
		return nil
	}
	step := session.CurrentStep()
	msg := fmt.Sprintf("%s Step %d of %d: %s", f.theme.StepPrefix, current, total, step.Title)
	if step.Description != "" {
		msg += " (" + step.Description + ")"
	}
	return f.driver.Info(ctx, strings.TrimSpace(msg))
}

func (f *Filler) reportIssues(ctx context.Context, session *navigation.Session) error {
	issues := session.Issues()
	for _, field := range session.VisibleFields() {
		issue, ok := issues[field.ID]
		if !ok {
			continue
		}
		msg := fmt.Sprintf("%s %s: %s", f.theme.ErrorPrefix, displayLabel(field), issue.Message)
		if err := f.driver.Info(ctx, strings.TrimSpace(msg)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) promptField(ctx context.Context, field model.Field, current model.Value) (model.Value, error) {
	message := f.promptLabel(field)
	help := displayHelp(field)

	widget, _ := f.widgets.Resolve(field)
	switch widget {
	case widgets.WidgetToggle:
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: message,
			Default: current.Kind == model.ValueBool && current.Bool,
			Help:    help,
		})
		if err != nil {
			return model.Value{}, err
		}
		return model.Bool(checked), nil

	case widgets.WidgetSelect:
		options := append([]string(nil), field.Options...)
		if !field.Required {
			options = append([]string{noneOption}, options...)
		}
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOf(options, current.Text()),
			Help:         help,
		})
		if err != nil {
			return model.Value{}, err
		}
		if idx < 0 || idx >= len(options) || options[idx] == noneOption {
			return model.Absent(), nil
		}
		return model.String(options[idx]), nil

	case widgets.WidgetTextarea:
		text, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message: message,
			Default: current.Text(),
			Help:    help,
		})
		if err != nil {
			return model.Value{}, err
		}
		return model.String(text), nil

	default:
		if widget == widgets.WidgetDate && help == "" {
			help = "Format: YYYY-MM-DD"
		}
		text, err := f.driver.Input(ctx, InputConfig{
			Message: message,
			Default: current.Text(),
			Help:    help,
		})
		if err != nil {
			return model.Value{}, err
		}
		return model.String(text), nil
	}
}

func (f *Filler) promptLabel(field model.Field) string {
	label := displayLabel(field)
	if field.Required && f.theme.RequiredTag != "" {
		label += " " + f.theme.RequiredTag
	}
	return label
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func displayHelp(field model.Field) string {
	if field.HelpText != "" {
		return field.HelpText
	}
	return field.Placeholder
}
