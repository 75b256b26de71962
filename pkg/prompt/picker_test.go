package prompt_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/prompt"
	"github.com/goliatone/go-exampledoc/pkg/status"
	"github.com/goliatone/go-exampledoc/pkg/testsupport"
	"github.com/goliatone/go-exampledoc/pkg/value"
)

type scriptedDriver struct {
	selects  []string
	confirms []bool
	inputs   []string
	asked    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", prompt.ErrAborted
	}
	next := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(next); err != nil {
			return "", err
		}
	}
	return next, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg prompt.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, nil
	}
	next := d.confirms[0]
	d.confirms = d.confirms[1:]
	return next, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.selects) == 0 {
		return 0, prompt.ErrAborted
	}
	next := d.selects[0]
	d.selects = d.selects[1:]
	for i, option := range cfg.Options {
		if option == next {
			return i, nil
		}
	}
	return -1, nil
}

func (d *scriptedDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	return "", nil
}

func registry(t *testing.T) *examples.Registry {
	return testsupport.Registry(t,
		value.F("USER", value.Map(value.F("username", value.String("bob")))),
		value.F("FACILITY", value.Map(value.F("name", value.String("Sunrise")))),
	)
}

func TestPick_BodyWithOverrides(t *testing.T) {
	driver := &scriptedDriver{
		selects:  []string{"USER", prompt.OutputBody, "201 Created"},
		confirms: []bool{true, false},
		inputs:   []string{"username=alice"},
	}

	sel, err := prompt.Pick(testsupport.Context(), driver, registry(t), status.Default())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	want := prompt.Selection{
		Name:        "USER",
		Output:      prompt.OutputBody,
		Status:      201,
		Assignments: []string{"username=alice"},
	}
	if diff := cmp.Diff(want, sel); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	transform, err := sel.Transform()
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	got, err := transform(value.Map(value.F("username", value.String("bob"))))
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if name, _ := got.Get("username"); !name.Equal(value.String("alice")) {
		t.Fatalf("unexpected username %v", name.Interface())
	}
}

func TestPick_JSONSkipsStatus(t *testing.T) {
	driver := &scriptedDriver{selects: []string{"FACILITY", prompt.OutputJSON}}

	sel, err := prompt.Pick(testsupport.Context(), driver, registry(t), status.Default())
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if sel.Status != 0 || sel.Name != "FACILITY" {
		t.Fatalf("unexpected selection %+v", sel)
	}
	if diff := cmp.Diff([]string{"Example", "Output", "Override a field?"}, driver.asked); diff != "" {
		t.Fatalf("prompt sequence mismatch (-want +got):\n%s", diff)
	}
	if transform, err := sel.Transform(); err != nil || transform != nil {
		t.Fatalf("expected no transform, got %v", err)
	}
}

func TestPick_Aborted(t *testing.T) {
	_, err := prompt.Pick(testsupport.Context(), &scriptedDriver{}, registry(t), status.Default())
	if !errors.Is(err, prompt.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestPick_InvalidAssignment(t *testing.T) {
	driver := &scriptedDriver{
		selects:  []string{"USER", prompt.OutputRaw},
		confirms: []bool{true},
		inputs:   []string{"missing-equals"},
	}
	if _, err := prompt.Pick(testsupport.Context(), driver, registry(t), status.Default()); err == nil {
		t.Fatal("expected validator error")
	}
}

func TestPick_EmptyRegistry(t *testing.T) {
	_, err := prompt.Pick(testsupport.Context(), &scriptedDriver{}, examples.NewBuilder().Build(), status.Default())
	if !errors.Is(err, prompt.ErrNoExamples) {
		t.Fatalf("expected ErrNoExamples, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]int{"404": 404, "404 Not Found": 404, " 200 OK ": 200} {
		got, err := prompt.ParseStatus(raw)
		if err != nil || got != want {
			t.Errorf("ParseStatus(%q) = %d, %v", raw, got, err)
		}
	}
	if _, err := prompt.ParseStatus("teapot"); err == nil {
		t.Fatal("expected error")
	}
}
