package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// quietLogs routes the CLI logger to l for the duration of the test.
func quietLogs(t *testing.T, l *zap.Logger) {
	t.Helper()
	prev := newLogger
	newLogger = func(string, string) (*zap.Logger, error) { return l, nil }
	t.Cleanup(func() { newLogger = prev })
}

func TestExecute_CatalogPrintsBuiltIn(t *testing.T) {
	quietLogs(t, zap.NewNop())
	var out, errOut bytes.Buffer

	code := execute([]string{"catalog", "--config-env", "local"}, &out, &errOut)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	for _, name := range []string{"mota_knowledge_vectors", "mota_user_preference_vectors"} {
		if !strings.Contains(out.String(), "name: "+name) {
			t.Errorf("catalog output missing %s", name)
		}
	}
}

func TestExecute_CatalogFromFile(t *testing.T) {
	quietLogs(t, zap.NewNop())
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `collections:
  - name: docs
    fields:
      - name: id
        type: string
        max_length: 64
        primary: true
      - name: embedding
        type: vector
        dim: 4
    indexes:
      embedding:
        metric: cosine
        algorithm: FLAT
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	var out, errOut bytes.Buffer
	code := execute([]string{"catalog", "--config-env", "local", "--catalog", path}, &out, &errOut)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "name: docs") || strings.Contains(out.String(), "mota_") {
		t.Errorf("unexpected catalog output:\n%s", out.String())
	}
}

func TestExecute_BadCatalogFails(t *testing.T) {
	quietLogs(t, zap.NewNop())
	var out, errOut bytes.Buffer

	code := execute([]string{"catalog", "--config-env", "local", "--catalog", "/nonexistent/catalog.yaml"}, &out, &errOut)
	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(errOut.String(), "read catalog") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	quietLogs(t, zap.NewNop())
	var out, errOut bytes.Buffer
	if code := execute([]string{"frobnicate"}, &out, &errOut); code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
}

func TestExecute_Version(t *testing.T) {
	quietLogs(t, zap.NewNop())
	var out, errOut bytes.Buffer
	if code := execute([]string{"--version"}, &out, &errOut); code != exitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "dev") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestExecute_LogsThroughInjectedLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	quietLogs(t, zap.New(core))

	var out, errOut bytes.Buffer
	if code := execute([]string{"catalog", "--config-env", "local"}, &out, &errOut); code != exitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut.String())
	}
	if logs.FilterMessage("Starting vecprov").Len() != 1 {
		t.Errorf("expected startup line on the injected logger, got %v", logs.All())
	}
}
