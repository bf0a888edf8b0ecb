package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hydra/internal/llm"
)

func TestBuiltinDirectory(t *testing.T) {
	d, err := NewDirectory(nil)
	require.NoError(t, err)

	a, err := d.Lookup("coder")
	require.NoError(t, err)
	assert.Equal(t, "coder", a.Name)
	assert.NotEmpty(t, a.Role)
	assert.NotEmpty(t, a.DefaultModel)

	_, err = d.Lookup("nonexistent")
	assert.Error(t, err)

	assert.True(t, d.Has("Generalist"))
	assert.False(t, d.Has("wizard"))
	assert.Equal(t, GeneralistName, d.Generalist().Name)
}

func TestDirectoryRejectsDuplicates(t *testing.T) {
	_, err := NewDirectory([]Agent{
		{Name: "generalist", Role: "a"},
		{Name: "Generalist", Role: "b"},
	})
	assert.ErrorContains(t, err, "duplicate")
}

func TestDirectoryRequiresGeneralist(t *testing.T) {
	_, err := NewDirectory([]Agent{{Name: "coder", Role: "codes"}})
	assert.ErrorContains(t, err, "generalist")
}

func TestDirectoryRejectsBadPattern(t *testing.T) {
	_, err := NewDirectory([]Agent{
		{Name: "generalist", Role: "a"},
		{Name: "broken", Role: "b", SpecialtyPatterns: []string{"["}},
	})
	assert.ErrorContains(t, err, "invalid specialty pattern")
}

func TestRoute(t *testing.T) {
	d, err := NewDirectory(nil)
	require.NoError(t, err)

	tests := []struct {
		description string
		want        string
	}{
		{"implement a parser function and fix the bug in tokenization", "coder"},
		{"research available message brokers and compare them", "researcher"},
		{"review the security of the login flow", "reviewer"},
		{"design the structure of a scalable ingestion system", "architect"},
		{"make me a sandwich", GeneralistName},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.Route(tt.description).Name, "description: %s", tt.description)
	}
}

func TestLoadDirectoryMissingFileUsesBuiltins(t *testing.T) {
	d, err := LoadDirectory(t.TempDir())
	require.NoError(t, err)
	assert.True(t, d.Has("coder"))
}

func TestLoadDirectoryFromCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hydra"), 0755))
	catalog := `agents:
  - name: generalist
    role: does everything
    default_model: llama3.1
    class: local
    default_temperature: 0.6
  - name: sql-expert
    role: writes SQL
    default_model: gemini-2.5-pro
    class: cloud
    default_temperature: 0.2
    specialty_patterns:
      - '\bsql\b'
      - '\bquery\b'
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hydra", "agents.yaml"), []byte(catalog), 0644))

	d, err := LoadDirectory(dir)
	require.NoError(t, err)

	a, err := d.Lookup("sql-expert")
	require.NoError(t, err)
	assert.Equal(t, llm.ClassCloud, a.Class)
	assert.Equal(t, "sql-expert", d.Route("optimize this slow SQL query").Name)

	// Built-ins are replaced, not merged.
	assert.False(t, d.Has("coder"))
}

func TestLoadDirectoryMalformedCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hydra"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hydra", "agents.yaml"), []byte("agents: [not valid"), 0644))

	_, err := LoadDirectory(dir)
	assert.Error(t, err)
}
