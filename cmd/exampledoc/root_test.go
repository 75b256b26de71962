package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-exampledoc/pkg/prompt"
)

func run(t *testing.T, a *app, stdin string, args ...string) (string, string, error) {
	t.Helper()
	if a == nil {
		a = newApp()
	}
	if a.environ == nil {
		a.environ = map[string]string{}
	}
	var stdout, stderr bytes.Buffer
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	out, _, err := run(t, nil, "", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range []string{"USER\n", "AUTH_TOKEN\n", "CHART_MY_BAR_GRAPH\n"} {
		if !strings.Contains(out, name) {
			t.Errorf("missing %q in list output", name)
		}
	}
}

func TestStatuses(t *testing.T) {
	out, _, err := run(t, nil, "", "statuses")
	if err != nil {
		t.Fatalf("statuses: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "200 OK" || lines[len(lines)-1] != "502 Bad Gateway" {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestJSONRaw(t *testing.T) {
	out, _, err := run(t, nil, "", "json", "user", "--raw", "--set", "username=alice", "--set", "facility_user.can_see_staff=false")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got["username"] != "alice" || got["first_name"] != "Bob" {
		t.Fatalf("unexpected payload %v", got)
	}
	if staff := got["facility_user"].(map[string]any)["can_see_staff"]; staff != false {
		t.Fatalf("expected nested override, got %v", staff)
	}
}

func TestJSONUnknownName(t *testing.T) {
	if _, _, err := run(t, nil, "", "json", "NO_SUCH_KEY"); err == nil || !strings.Contains(err.Error(), "NO_SUCH_KEY") {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestBodyFromStdin(t *testing.T) {
	out, _, err := run(t, nil, "<script>alert(1)</script>", "body", "--status", "404", "-H", "X-Request-Id: abc")
	if err != nil {
		t.Fatalf("body: %v", err)
	}
	for _, fragment := range []string{"Status: 404 Not Found", "X-Request-Id: abc", "Content-Type: text/html", "&lt;script&gt;alert(1)&lt;/script&gt;"} {
		if !strings.Contains(out, fragment) {
			t.Errorf("missing %q in:\n%s", fragment, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("body was not escaped:\n%s", out)
	}
}

func TestBodyUnknownStatus(t *testing.T) {
	if _, _, err := run(t, nil, "tea", "body", "--status", "418"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	out, _, err := run(t, nil, "tea", "body", "--status", "418", "--lenient-status")
	if err != nil {
		t.Fatalf("lenient body: %v", err)
	}
	if !strings.Contains(out, "418 Unknown Status") {
		t.Fatalf("expected placeholder label:\n%s", out)
	}
}

func TestBodyInvalidHeader(t *testing.T) {
	if _, _, err := run(t, nil, "x", "body", "-H", "no-colon"); err == nil {
		t.Fatal("expected header parse error")
	}
}

func TestCSS(t *testing.T) {
	out, _, err := run(t, nil, "", "css", "--style", "monokai")
	if err != nil {
		t.Fatalf("css: %v", err)
	}
	if !strings.Contains(out, ".chroma") {
		t.Fatalf("expected chroma classes:\n%s", out)
	}
	if _, _, err := run(t, nil, "", "css", "--style", "no-such-style"); err == nil {
		t.Fatal("expected unknown style to fail")
	}
}

func TestCharts(t *testing.T) {
	out, _, err := run(t, nil, "", "charts")
	if err != nil {
		t.Fatalf("charts: %v", err)
	}
	if !strings.Contains(out, `<canvas id="myDoughnutGraph">`) {
		t.Fatalf("expected doughnut canvas:\n%s", out)
	}
}

const buildManifest = `
fixtures:
  - extra.yaml
output_dir: out
fragments:
  - name: shift
    kind: json
    example: SHIFT_NOTE
  - name: missing
    kind: json
    example: NO_SUCH_KEY
  - name: not-found
    kind: body
    status: 404
    body_file: body.html
`

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"exampledoc.yaml": buildManifest,
		"extra.yaml":      "shift_note:\n  text: quiet night\n",
		"body.html":       "<h1>Not here</h1>",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	out := filepath.Join(dir, "out")

	stdout, stderr, err := run(t, nil, "", "build", "--config", filepath.Join(dir, "exampledoc.yaml"), "--output", out)
	if err == nil || !strings.Contains(err.Error(), "1 fragment(s) failed") {
		t.Fatalf("expected one failed fragment, got %v", err)
	}
	if !strings.Contains(stderr, `skipped fragment "missing"`) {
		t.Fatalf("expected skip log, got %q", stderr)
	}
	if !strings.Contains(stdout, "wrote 2 fragment(s)") {
		t.Fatalf("unexpected summary %q", stdout)
	}
	for _, name := range []string{"shift.html", "not-found.html"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

type fakeDriver struct {
	selects []string
}

func (d *fakeDriver) Input(context.Context, prompt.InputConfig) (string, error) {
	return "", prompt.ErrAborted
}

func (d *fakeDriver) Confirm(context.Context, prompt.ConfirmConfig) (bool, error) {
	return false, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg prompt.SelectConfig) (int, error) {
	next := d.selects[0]
	d.selects = d.selects[1:]
	for i, option := range cfg.Options {
		if option == next {
			return i, nil
		}
	}
	return -1, prompt.ErrAborted
}

func (d *fakeDriver) TextArea(context.Context, prompt.TextAreaConfig) (string, error) {
	return "", nil
}

func TestPick(t *testing.T) {
	a := newApp()
	a.driver = &fakeDriver{selects: []string{"AUTH_TOKEN", prompt.OutputRaw}}

	out, _, err := run(t, a, "", "pick")
	if err != nil {
		t.Fatalf("pick: %v", err)
	}
	if !strings.Contains(out, `"token": "lkja8*lkajsd*lkjas;ldkj8asd;kJASd811"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPickAborted(t *testing.T) {
	a := newApp()
	a.driver = &fakeDriver{selects: []string{"NOPE"}}
	if out, _, err := run(t, a, "", "pick"); err != nil || out != "" {
		t.Fatalf("abort should exit quietly, got %q, %v", out, err)
	}
}

func TestPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.md")
	source := "# Errors\n\n{{ body(\"<b>nope</b>\", 404) }}\n"
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write page: %v", err)
	}
	out, _, err := run(t, nil, "", "page", path)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if !strings.Contains(out, `<h1 id="errors">Errors</h1>`) || !strings.Contains(out, "&lt;b&gt;nope&lt;/b&gt;") {
		t.Fatalf("unexpected page:\n%s", out)
	}
}
