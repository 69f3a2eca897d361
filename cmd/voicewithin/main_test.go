package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xpanvictor/voicewithin/internal/app"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	t.Setenv("VOICEWITHIN_SUMMARIZER_API_KEY", "sk-secret")

	path := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(path, []byte("summarizer:\n  model: qwen2.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	if !strings.Contains(out, "# "+path) {
		t.Errorf("Output should name the config file:\n%s", out)
	}
	if !strings.Contains(out, "model: qwen2.5") {
		t.Errorf("Output should include file values:\n%s", out)
	}
	if strings.Contains(out, "sk-secret") {
		t.Errorf("API key must be masked:\n%s", out)
	}
}

func TestConfigCommandMissingFile(t *testing.T) {
	if _, err := execute(t, "config", "--config", filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for an explicit missing config file")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "voicewithin ") {
		t.Errorf("version output = %q", out)
	}
}

func TestPrintChecks(t *testing.T) {
	var buf bytes.Buffer
	printChecks(&buf, []app.Check{{Name: "Microphone", OK: true, Detail: "Built-in"}, {Name: "Speech model", OK: false, Detail: "missing"}})
	out := buf.String()
	if !strings.Contains(out, "[ok  ] Microphone: Built-in") || !strings.Contains(out, "[FAIL] Speech model: missing") {
		t.Errorf("Unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Ready to record") {
		t.Error("Should not claim readiness with a failed check")
	}
}
