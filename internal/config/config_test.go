package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-exampledoc/internal/config"
)

const manifest = `
fixtures:
  - testdata/extra.yaml
style: monokai
output_dir: site/fragments
http_timeout: 3s
fragments:
  - name: user
    kind: json
    example: USER
    set:
      - username=alice
  - name: not-found
    kind: body
    status: 404
    body: "<h1>Not Found</h1>"
    headers:
      X-Request-Id: abc
  - name: dashboard
    kind: charts
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exampledoc.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_File(t *testing.T) {
	cfg, err := config.LoadWithEnv(writeConfig(t, manifest), map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Style != "monokai" || cfg.OutputDir != "site/fragments" {
		t.Fatalf("unexpected settings %+v", cfg)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.HTTPTimeout)
	}
	if diff := cmp.Diff([]string{"testdata/extra.yaml"}, cfg.Fixtures); diff != "" {
		t.Fatalf("fixtures mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Fragments) != 3 {
		t.Fatalf("expected 3 fragments, got %d", len(cfg.Fragments))
	}
	user := cfg.Fragments[0]
	if user.Kind != config.KindJSON || user.Example != "USER" {
		t.Fatalf("unexpected fragment %+v", user)
	}
	if diff := cmp.Diff([]string{"username=alice"}, user.Set); diff != "" {
		t.Fatalf("set mismatch (-want +got):\n%s", diff)
	}
	body := cfg.Fragments[1]
	if body.Status != 404 || body.Body != "<h1>Not Found</h1>" || len(body.Headers) != 1 {
		t.Fatalf("unexpected body fragment %+v", body)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.LoadWithEnv("", map[string]string{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := config.Defaults()
	if cfg.Style != want.Style || cfg.OutputDir != want.OutputDir || cfg.HTTPTimeout != want.HTTPTimeout {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := config.LoadWithEnv(writeConfig(t, manifest), map[string]string{
		"EXAMPLEDOC_STYLE":          "dracula",
		"EXAMPLEDOC_OPENAPI":        "api.yaml,https://example.com/api.json",
		"EXAMPLEDOC_LENIENT_STATUS": "true",
		"EXAMPLEDOC_HTTP_TIMEOUT":   "250ms",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Style != "dracula" || !cfg.LenientStatus || cfg.HTTPTimeout != 250*time.Millisecond {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"api.yaml", "https://example.com/api.json"}, cfg.OpenAPI); diff != "" {
		t.Fatalf("openapi mismatch (-want +got):\n%s", diff)
	}
	if cfg.OutputDir != "site/fragments" {
		t.Fatalf("unset variables must not override the file, got %q", cfg.OutputDir)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := config.LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), map[string]string{}); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate_Manifest(t *testing.T) {
	cases := map[string]string{
		"missing name":   "fragments:\n  - kind: charts\n",
		"duplicate name": "fragments:\n  - {name: a, kind: charts}\n  - {name: a, kind: charts}\n",
		"unknown kind":   "fragments:\n  - {name: a, kind: xml}\n",
		"json example":   "fragments:\n  - {name: a, kind: json}\n",
		"body status":    "fragments:\n  - {name: a, kind: body}\n",
		"body sources":   "fragments:\n  - {name: a, kind: body, status: 200, body: x, body_file: y}\n",
		"page source":    "fragments:\n  - {name: a, kind: page}\n",
	}
	for name, body := range cases {
		_, err := config.LoadWithEnv(writeConfig(t, body), map[string]string{})
		if err == nil || !strings.Contains(err.Error(), "invalid manifest") {
			t.Errorf("%s: expected manifest error, got %v", name, err)
		}
	}
}
