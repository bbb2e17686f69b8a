package domain

import (
	"strings"
	"time"
)

// Fabric representa um tecido em estoque (a Entidade principal do inventário).
// Contém os dados comerciais e os campos de auditoria.
type Fabric struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`     // Categoria principal (ex: "Calça jeans")
	SubType        string    `json:"sub_type"` // Subcategoria (ex: "Jeans")
	Supplier       string    `json:"supplier"`
	Color          string    `json:"color"` // Cor em hexadecimal (ex: "#000000")
	Price          float64   `json:"price"`
	Quantity       int       `json:"quantity"`
	MinQuantity    int       `json:"min_quantity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedBy string    `json:"last_modified_by"`
}

// IsLowStock informa se o tecido está com estoque baixo.
// Invariante do domínio: estoque baixo <=> quantity <= minQuantity.
func (f Fabric) IsLowStock() bool {
	return f.Quantity <= f.MinQuantity
}

// NewFabricFromTransit constrói um novo Fabric a partir de um item em trânsito
// que não possui correspondente no inventário. Os campos que o pedido não
// carrega recebem valores padrão (preço zero, estoque mínimo zero, cor preta).
func NewFabricFromTransit(item InTransitItem, userID string, now time.Time) Fabric {
	return Fabric{
		Name:           item.FabricName,
		Type:           item.FabricType,
		SubType:        item.SubType,
		Supplier:       item.Supplier,
		Quantity:       item.Quantity,
		MinQuantity:    0,
		Price:          0,
		Color:          "#000000",
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      userID,
		LastModifiedBy: userID,
	}
}

// FabricFilter define os parâmetros de busca da listagem de tecidos.
// Todos os critérios ativos são combinados com E (conjunção).
type FabricFilter struct {
	Search  string // Substring, sem diferenciar maiúsculas, sobre nome OU tipo
	Type    string // Igualdade exata sobre a categoria principal
	SubType string // Igualdade exata sobre a subcategoria
}

// Matches informa se o tecido satisfaz todos os critérios ativos do filtro.
func (filter FabricFilter) Matches(f Fabric) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		matchesSearch := strings.Contains(strings.ToLower(f.Name), search) ||
			strings.Contains(strings.ToLower(f.Type), search)
		if !matchesSearch {
			return false
		}
	}
	if filter.Type != "" && f.Type != filter.Type {
		return false
	}
	if filter.SubType != "" && f.SubType != filter.SubType {
		return false
	}
	return true
}

// InventorySummary agrega os indicadores exibidos no painel.
type InventorySummary struct {
	TotalFabrics    int     `json:"total_fabrics"`
	LowStockFabrics int     `json:"low_stock_fabrics"`
	TotalValue      float64 `json:"total_value"`      // Soma de preço x quantidade
	AverageQuantity int     `json:"average_quantity"` // Média arredondada de estoque
}
