package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	screens := make(map[string]string)
	for _, e := range c.Entries {
		screens[e.Title] = e.Screen
	}

	assert.Len(t, c.Entries, 5)
	assert.Equal(t, "EstruturaCurricular", screens["Estrutura Curricular"])
	assert.Equal(t, "Projetos", screens["Projetos"])
	assert.Equal(t, "AtendimentosAuxilios", screens["Atendimentos e Auxílios"])
	assert.Equal(t, "HorasComplementares", screens["Horas Complementares"])
	assert.Equal(t, "PosGraduacoesIntercambios", screens["Pós-Graduação e Intercâmbio"])
	assert.Greater(t, c.Strings(), 150)
}

func TestDefaultCatalogIsSearchable(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	results := Search(Build(c.Entries, nil), "matriz curricular")

	require.Len(t, results, 1)
	assert.Equal(t, "EstruturaCurricular", results[0].Screen)
	assert.Len(t, results[0].Content, 2)
}

func TestParseCatalogJSONC(t *testing.T) {
	data := []byte(`
	// topics
	{
		"entries": [
			{
				"title": "Projetos", /* inline */
				"screen": "Projetos",
				"content": ["Ensino", "Pesquisa",],
			},
		],
	}`)

	c, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, []string{"Ensino", "Pesquisa"}, c.Entries[0].Content)
}

func TestParseCatalogInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"entries": [`},
		{"missing title", `{"entries": [{"screen": "X", "content": []}]}`},
		{"missing screen", `{"entries": [{"title": "X", "content": []}]}`},
		{"keys on static entry", `{"entries": [{"title": "X", "screen": "X", "content": ["a"], "keys": ["k"]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"entries": [{"title": "Biblioteca", "screen": "Biblioteca", "content": ["Acervo"]}]}`), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, "Biblioteca", c.Entries[0].Title)

	def, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, def.Entries, 5)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.jsonc"))
	assert.Error(t, err)
}
