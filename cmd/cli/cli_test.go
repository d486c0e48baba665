package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/guiafaen/guia/internal/libs/config"
	"github.com/guiafaen/guia/internal/scope/search"
)

func TestPrintResults(t *testing.T) {
	results := []search.Result{
		{Title: "UERN", Screen: "UERN", Content: []string{"Universidade do Estado"}, Keys: []string{"titulo"}},
		{Title: "Projetos", Screen: "Projetos", Content: []string{"Projetos de ensino"}},
	}

	var buf bytes.Buffer
	printResults(&buf, "do", results, newStyles(lipgloss.NewRenderer(&buf)))
	out := buf.String()

	for _, want := range []string{
		`guia search "do"`,
		"Results (2 found):",
		"UERN → UERN",
		"  Universidade do Estado (titulo)",
		"  Projetos de ensino\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunSearchOffline(t *testing.T) {
	var out, errOut bytes.Buffer
	err := runSearch(context.Background(), &out, &errOut, "pontuacao", searchOptions{offline: true})
	if err != nil {
		t.Fatalf("runSearch() failed: %v", err)
	}
	if !strings.Contains(out.String(), "Horas Complementares") {
		t.Errorf("expected catalog hit, got:\n%s", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("offline search should not touch the database, stderr:\n%s", errOut.String())
	}
}

func TestRunSearchJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonc")
	data := `{"entries": [{"title": "Biblioteca", "content": ["Horário da biblioteca"], "screen": "Biblioteca"},],}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	opts := searchOptions{offline: true, asJSON: true, catalog: path}
	if err := runSearch(context.Background(), &out, &errOut, "HORARIO", opts); err != nil {
		t.Fatalf("runSearch() failed: %v", err)
	}
	if !strings.Contains(out.String(), `"screen": "Biblioteca"`) {
		t.Errorf("unexpected JSON output:\n%s", out.String())
	}
}

func TestRunCatalogCheck(t *testing.T) {
	var out bytes.Buffer
	if err := runCatalogCheck(&out, ""); err != nil {
		t.Fatalf("built-in catalog should be valid: %v", err)
	}
	if !strings.Contains(out.String(), "built-in catalog: 5 entries") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	path := filepath.Join(t.TempDir(), "bad.jsonc")
	if err := os.WriteFile(path, []byte(`{"entries": [{"title": "Sem tela"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := runCatalogCheck(&out, path); err == nil {
		t.Error("expected error for entry without screen")
	}
}

func TestPrintTables(t *testing.T) {
	cfg := &config.Config{
		ContentTables:  []config.Table{{Name: "uern_content", Screen: "UERN"}},
		EditableTables: []string{"uern_content", "biblioteca_content"},
	}

	var out bytes.Buffer
	if err := printTables(&out, cfg); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "uern_content") || !strings.HasSuffix(lines[1], "yes") {
		t.Errorf("unexpected searched row %q", lines[1])
	}
	if !strings.Contains(lines[2], "BIBLIOTECA") || !strings.HasSuffix(lines[2], "no") {
		t.Errorf("unexpected editable row %q", lines[2])
	}
}
