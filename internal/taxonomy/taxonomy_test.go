package taxonomy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"tecistock/internal/taxonomy"
)

// TestDefault_Categories testa a taxonomia padrão embutida e sua ordem.
func TestDefault_Categories(t *testing.T) {
	tax := taxonomy.Default()

	categories := tax.Categories()
	assert.Len(t, categories, 5)
	assert.Equal(t, "Camiseta Básica", categories[0].Name)
	assert.Equal(t, []string{"Meia Malha"}, categories[0].Subcategories)
	assert.Equal(t, "Bermuda Tactel", categories[4].Name)
}

// TestValidPair testa a validação de pares tipo/subtipo.
func TestValidPair(t *testing.T) {
	tax := taxonomy.Default()

	assert.True(t, tax.ValidPair("Calça jeans", "Jeans"))
	assert.True(t, tax.ValidPair("Camiseta Polo", "Piquet"))

	// Subtipo de outra categoria
	assert.False(t, tax.ValidPair("Calça jeans", "Piquet"))
	// Categoria inexistente
	assert.False(t, tax.ValidPair("Vestido", "Jeans"))
	// Vazios
	assert.False(t, tax.ValidPair("", ""))
}

// TestLoad_EmptyPathReturnsDefault testa que path vazio usa a taxonomia padrão.
func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	tax, err := taxonomy.Load("")

	assert.NoError(t, err)
	assert.Len(t, tax.Categories(), 5)
}

// TestLoad_FromFile testa o carregamento de uma taxonomia customizada.
func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	content := `[{"name": "Moletom", "subcategories": ["Felpado", "Flanelado"]}]`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tax, err := taxonomy.Load(path)

	assert.NoError(t, err)
	assert.Len(t, tax.Categories(), 1)
	assert.True(t, tax.ValidPair("Moletom", "Felpado"))
	assert.False(t, tax.ValidPair("Moletom", "Jeans"))
}

// TestLoad_InvalidFile testa os erros de arquivo ausente, malformado e vazio.
func TestLoad_InvalidFile(t *testing.T) {
	_, err := taxonomy.Load("/caminho/inexistente.json")
	assert.Error(t, err)

	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.json")
	assert.NoError(t, os.WriteFile(malformed, []byte("{not json"), 0o600))
	_, err = taxonomy.Load(malformed)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	assert.NoError(t, os.WriteFile(empty, []byte("[]"), 0o600))
	_, err = taxonomy.Load(empty)
	assert.Error(t, err)
}
