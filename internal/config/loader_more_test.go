package config

import (
	"strings"
	"testing"
)

func TestLoad_MalformedFiles(t *testing.T) {
	cases := map[string]string{
		"missing.yaml": "",
		"bad.yaml":     "addr: :8080\n: broken\n",
		"bad.json":     `{ "addr": ":8080", "sources_dir": }`,
		"bad.toml":     "addr=:8080\nsources_dir\n",
	}
	d := t.TempDir()
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := d + "/" + name
			if body != "" {
				p = writeTempFile(t, d, name, body)
			}
			if _, err := Load(p); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoad_BadInlineSources(t *testing.T) {
	cases := []struct {
		name, file, body, want string
	}{
		{"scalar sources", "scalar.yaml", "sources: main-window\n", ""},
		{"sinks not a list", "sinks.json", `{"sources":[{"name":"w","kind":"window","sinks":{"id":"a"}}]}`, ""},
		{"non-numeric width", "width.toml", "[[sources]]\nname = \"w\"\nkind = \"window\"\nwidth = \"wide\"\n", ""},
		{"unnamed source", "unnamed.yaml", "sources:\n  - kind: window\n", "sources[0]: name is required"},
		{"duplicate names", "dup.json", `{"sources":[{"name":"w","kind":"window"},{"name":"w","kind":"stream"}]}`, `sources[1]: name "w" already used by sources[0]`},
	}
	d := t.TempDir()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempFile(t, d, tc.file, tc.body))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoad_InlineSourcesKeepOrder(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "order.toml", `
[[sources]]
name = "b"
kind = "stream"

[[sources]]
name = "a"
kind = "window"
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[0].Name != "b" || cfg.Sources[1].Name != "a" {
		t.Fatalf("sources=%+v", cfg.Sources)
	}
}
