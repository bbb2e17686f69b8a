package category

import (
	"encoding/json"
	"net/http"

	"tecistock/internal/pkg/logger"
	"tecistock/internal/taxonomy"
)

// Handler expõe a taxonomia de categorias para os formulários do cliente.
type Handler struct {
	Taxonomy *taxonomy.Taxonomy
	Logger   logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando a taxonomia.
func NewHandler(t *taxonomy.Taxonomy, log logger.Logger) *Handler {
	return &Handler{
		Taxonomy: t,
		Logger:   log,
	}
}

// ListCategoriesHandler lida com a requisição GET /v1/categories.
// A resposta preserva a ordem de definição das categorias e subcategorias.
func (h *Handler) ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.Taxonomy.Categories()); err != nil {
		h.Logger.Error("Falha ao codificar JSON de categorias", err)
	}
}
