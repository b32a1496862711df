package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/navigation"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	prompts      []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestFill_SingleStepRepromptsOnErrors(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "contact.json")
	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{
		inputs:    []string{"Ada", "not-an-email", "", "Ada", "ada@example.com", ""},
		textAreas: []string{"Hello there, engine room", "Hello there, engine room"},
	}

	sub, err := New(WithPromptDriver(driver)).Fill(context.Background(), session)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := model.Values{
		"name":    model.String("Ada"),
		"email":   model.String("ada@example.com"),
		"phone":   model.String(""),
		"message": model.String("Hello there, engine room"),
	}
	if diff := cmp.Diff(want, sub.Data); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"! Email Address: Invalid format"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.prompts[0] != "Full Name *" || driver.prompts[2] != "Phone Number" {
		t.Fatalf("unexpected prompt labels %v", driver.prompts[:4])
	}
}

func TestFill_MultiStepWithBackNavigation(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "job_application.json")
	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{
		inputs: []string{
			"Ada", "Lovelace", "ada@example.com",
			"Ada", "Byron", "ada@example.com",
		},
		selectIdx: []int{1, 2},
		// newsletter, go back, newsletter, stay
		confirm:   []bool{true, true, false, false},
		textAreas: []string{"I like analytical engines", "I like analytical engines a lot"},
	}

	sub, err := New(WithPromptDriver(driver)).Fill(context.Background(), session)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := model.Values{
		"first-name":   model.String("Ada"),
		"last-name":    model.String("Byron"),
		"email":        model.String("ada@example.com"),
		"position":     model.String("Full Stack Developer"),
		"newsletter":   model.Bool(false),
		"cover-letter": model.String("I like analytical engines a lot"),
	}
	if diff := cmp.Diff(want, sub.Data); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}
	if len(driver.infoMessages) == 0 || driver.infoMessages[0] != "== Step 1 of 2: Personal Information (Tell us about yourself)" {
		t.Fatalf("unexpected step banner %v", driver.infoMessages)
	}
}

func TestFill_MaxAttempts(t *testing.T) {
	def := testsupport.MustLoadDefinition(t, "contact.json")
	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{
		inputs:    []string{"", "", ""},
		textAreas: []string{""},
	}

	_, err = New(WithPromptDriver(driver), WithMaxAttempts(1)).Fill(context.Background(), session)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if len(driver.infoMessages) != 3 {
		t.Fatalf("expected three issues reported, got %v", driver.infoMessages)
	}
}

func TestFill_OptionalDropdownOffersNone(t *testing.T) {
	def := &model.FormDefinition{
		ID:    "pick",
		Title: "Pick",
		Fields: []model.Field{
			{ID: "colour", Type: model.FieldTypeDropdown, Label: "Colour", Options: []string{"Red", "Blue"}},
		},
	}
	session, err := navigation.New(def)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	driver := &stubDriver{selectIdx: []int{0}}

	sub, err := New(WithPromptDriver(driver)).Fill(context.Background(), session)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := sub.Data["colour"]; got != model.Absent() {
		t.Fatalf("expected absent value, got %#v", got)
	}
}

func TestFill_RequiresSession(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{})).Fill(context.Background(), nil); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}
