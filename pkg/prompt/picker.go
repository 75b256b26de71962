package prompt

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-exampledoc/pkg/examples"
	"github.com/goliatone/go-exampledoc/pkg/render"
	"github.com/goliatone/go-exampledoc/pkg/status"
)

// Output kinds offered by the picker.
const (
	OutputJSON = "Highlighted JSON"
	OutputBody = "JSON response with headers"
	OutputRaw  = "Plain JSON text"
)

var outputs = []string{OutputJSON, OutputBody, OutputRaw}

// Selection is the outcome of an interactive session.
type Selection struct {
	Name        string
	Output      string
	Status      int
	Assignments []string
}

// Transform combines the assignments into one render.Transform; nil when no
// field was overridden.
func (s Selection) Transform() (render.Transform, error) {
	return render.ParseAssignments(s.Assignments)
}

// Pick walks the user through choosing an example, the output kind, a status
// code for body output and any field overrides.
func Pick(ctx context.Context, driver Driver, reg *examples.Registry, statuses *status.Table) (Selection, error) {
	names := reg.Names()
	if len(names) == 0 {
		return Selection{}, ErrNoExamples
	}

	idx, err := driver.Select(ctx, SelectConfig{
		Message:  "Example",
		Options:  names,
		PageSize: 15,
	})
	if err != nil {
		return Selection{}, err
	}
	if idx < 0 || idx >= len(names) {
		return Selection{}, fmt.Errorf("prompt: invalid example choice %d", idx)
	}
	sel := Selection{Name: names[idx]}

	idx, err = driver.Select(ctx, SelectConfig{Message: "Output", Options: outputs})
	if err != nil {
		return Selection{}, err
	}
	if idx < 0 || idx >= len(outputs) {
		return Selection{}, fmt.Errorf("prompt: invalid output choice %d", idx)
	}
	sel.Output = outputs[idx]

	if sel.Output == OutputBody {
		code, err := pickStatus(ctx, driver, statuses)
		if err != nil {
			return Selection{}, err
		}
		sel.Status = code
	}

	for {
		more, err := driver.Confirm(ctx, ConfirmConfig{Message: "Override a field?"})
		if err != nil {
			return Selection{}, err
		}
		if !more {
			break
		}
		expr, err := driver.Input(ctx, InputConfig{
			Message:   "field=value",
			Help:      "Dotted paths reach nested fields; values are parsed as JSON when possible.",
			Validator: validateAssignment,
		})
		if err != nil {
			return Selection{}, err
		}
		sel.Assignments = append(sel.Assignments, strings.TrimSpace(expr))
	}
	return sel, nil
}

func pickStatus(ctx context.Context, driver Driver, statuses *status.Table) (int, error) {
	codes := statuses.Codes()
	options := make([]string, 0, len(codes))
	defaultIdx := 0
	for i, code := range codes {
		label, _ := statuses.Label(code)
		options = append(options, label)
		if code == 200 {
			defaultIdx = i
		}
	}
	idx, err := driver.Select(ctx, SelectConfig{Message: "Status", Options: options, DefaultIndex: defaultIdx})
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(codes) {
		return 0, fmt.Errorf("prompt: invalid status choice %d", idx)
	}
	return codes[idx], nil
}

func validateAssignment(expr string) error {
	_, err := render.ParseAssignment(strings.TrimSpace(expr))
	return err
}

// ParseStatus accepts "404" or a label such as "404 Not Found".
func ParseStatus(raw string) (int, error) {
	field, _, _ := strings.Cut(strings.TrimSpace(raw), " ")
	code, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("prompt: invalid status %q", raw)
	}
	return code, nil
}
