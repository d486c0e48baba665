package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStaticFirst(t *testing.T) {
	static := []Entry{{Title: "A", Content: []string{"a"}, Screen: "SA"}}
	dynamic := []Entry{{Title: "B", Content: []string{"b"}, Screen: "SB"}}

	c := Build(static, dynamic)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.Static())
	assert.Equal(t, 1, c.Dynamic())
	assert.Equal(t, []string{"A", "B"}, titles(c.Entries()))
}

func TestBuildNilCorpus(t *testing.T) {
	var c *Corpus
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Dynamic())
	assert.Nil(t, Search(c, "anything"))
}

func TestSearchEmptyQuery(t *testing.T) {
	c := Build([]Entry{{Title: "A", Content: []string{"alpha"}, Screen: "A"}}, nil)

	assert.Empty(t, Search(c, ""))
	// a lone combining mark normalizes to nothing and must not match everything
	assert.Empty(t, Search(c, "\u0301"))
}

func TestSearchContainment(t *testing.T) {
	c := Build([]Entry{{Title: "Cursos", Content: []string{"Matrícula 2021"}, Screen: "Cursos"}}, nil)

	tests := []struct {
		name  string
		query string
		hits  int
	}{
		{"accent-free query", "matricula", 1},
		{"accented query", "MATRÍCULA", 1},
		{"inner substring", "ícula 20", 1},
		{"no match", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Search(c, tt.query), tt.hits)
		})
	}
}

func TestSearchPreservesOrder(t *testing.T) {
	static := []Entry{
		{Title: "A", Content: []string{"saúde coletiva"}, Screen: "A"},
		{Title: "B", Content: []string{"Saude mental"}, Screen: "B"},
	}
	dynamic := []Entry{
		{Title: "C", Content: []string{"Educação em SAÚDE"}, Keys: []string{"titulo"}, Screen: "C"},
	}

	results := Search(Build(static, dynamic), "saude")

	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Title)
	assert.Equal(t, "B", results[1].Title)
	assert.Equal(t, "C", results[2].Title)
	assert.Equal(t, []string{"titulo"}, results[2].Keys)
	assert.Nil(t, results[0].Keys)
}

func TestSearchDropsNonMatchingStrings(t *testing.T) {
	fields, err := Flatten([]byte(`["Biologia", "Matrícula 2021", "https://img/x.png"]`))
	require.NoError(t, err)

	entry := Entry{Title: "Semestre", Screen: "EstruturaCurricular"}
	for _, f := range fields {
		entry.Content = append(entry.Content, f.Text)
	}
	require.Equal(t, []string{"Biologia", "Matrícula 2021"}, entry.Content)

	results := Search(Build([]Entry{entry}, nil), "bio")

	require.Len(t, results, 1)
	assert.Equal(t, []string{"Biologia"}, results[0].Content)
	assert.Equal(t, "EstruturaCurricular", results[0].Screen)
}

func TestSearchDoesNotMatchKeys(t *testing.T) {
	c := Build(nil, []Entry{{
		Title:   "AMBULATORIO",
		Content: []string{"Maria"},
		Keys:    []string{"coordenadora.nome"},
		Screen:  "Ambulatorio",
	}})

	assert.Empty(t, Search(c, "coordenadora"))
	assert.Len(t, Search(c, "maria"), 1)
}

func TestEndToEndProjetos(t *testing.T) {
	catalog := Catalog{Entries: []Entry{{
		Title:   "Projetos",
		Content: []string{"QUER CONHECER OS PROJETOS DE ENSINO DA FAEN?"},
		Screen:  "Projetos",
	}}}
	x := NewIndex(catalog, nil, testLogger())

	results := x.Search("ensino")

	require.Len(t, results, 1)
	assert.Equal(t, "Projetos", results[0].Screen)
	require.Len(t, results[0].Content, 1)

	segments := Highlight(results[0].Content[0], "ensino")
	assert.Equal(t, []Segment{
		{Text: "QUER CONHECER OS PROJETOS DE "},
		{Text: "ENSINO", Match: true},
		{Text: " DA FAEN?"},
	}, segments)
}

func titles(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}
