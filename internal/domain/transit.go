package domain

import (
	"strings"
	"time"
)

// InTransitItem representa um pedido de compra ainda não incorporado ao
// estoque. O item possui um único estado (pendente): ao confirmar a entrega
// ele é reconciliado no inventário e removido, sem estados intermediários.
type InTransitItem struct {
	ID           string    `json:"id"`
	FabricName   string    `json:"fabric_name"`
	FabricType   string    `json:"fabric_type"`
	SubType      string    `json:"sub_type"`
	Supplier     string    `json:"supplier"`
	Quantity     int       `json:"quantity"`
	ExpectedDate time.Time `json:"expected_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// TransitFilter define os parâmetros de busca da listagem de itens em trânsito.
// Mesmo padrão conjuntivo do FabricFilter, aplicado sobre nome/fornecedor.
type TransitFilter struct {
	Search  string // Substring sobre nome do tecido OU fornecedor
	Type    string // Igualdade exata sobre a categoria
	SubType string // Igualdade exata sobre a subcategoria
}

// Matches informa se o item satisfaz todos os critérios ativos do filtro.
func (filter TransitFilter) Matches(item InTransitItem) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		matchesSearch := strings.Contains(strings.ToLower(item.FabricName), search) ||
			strings.Contains(strings.ToLower(item.Supplier), search)
		if !matchesSearch {
			return false
		}
	}
	if filter.Type != "" && item.FabricType != filter.Type {
		return false
	}
	if filter.SubType != "" && item.SubType != filter.SubType {
		return false
	}
	return true
}
