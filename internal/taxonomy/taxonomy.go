package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category é uma categoria principal com suas subcategorias ordenadas.
type Category struct {
	Name          string   `json:"name"`
	Subcategories []string `json:"subcategories"`
}

// Taxonomy é o mapeamento fixo de categoria principal para subcategorias,
// usado para restringir os pares tipo/subtipo de tecidos e pedidos. Não é
// editável em tempo de execução: é dado de configuração carregado na
// inicialização, versionado junto com o deploy.
type Taxonomy struct {
	categories []Category
}

// Default retorna a taxonomia embutida de categorias de tecido.
func Default() *Taxonomy {
	return &Taxonomy{categories: []Category{
		{Name: "Camiseta Básica", Subcategories: []string{"Meia Malha"}},
		{Name: "Camiseta Polo", Subcategories: []string{"Piquet"}},
		{Name: "Calça de Sarja", Subcategories: []string{"Sarja"}},
		{Name: "Calça jeans", Subcategories: []string{"Jeans"}},
		{Name: "Bermuda Tactel", Subcategories: []string{"Tactel"}},
	}}
}

// Load carrega a taxonomia de um arquivo JSON (lista ordenada de categorias).
// Com path vazio, retorna a taxonomia padrão embutida.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler arquivo de categorias %s: %w", path, err)
	}

	var categories []Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("falha ao decodificar arquivo de categorias %s: %w", path, err)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("arquivo de categorias %s não define nenhuma categoria", path)
	}

	return &Taxonomy{categories: categories}, nil
}

// Categories retorna as categorias na ordem de definição.
func (t *Taxonomy) Categories() []Category {
	return t.categories
}

// ValidPair informa se o par tipo/subtipo pertence à taxonomia.
func (t *Taxonomy) ValidPair(mainType, subType string) bool {
	for _, c := range t.categories {
		if c.Name != mainType {
			continue
		}
		for _, sub := range c.Subcategories {
			if sub == subType {
				return true
			}
		}
		return false
	}
	return false
}
