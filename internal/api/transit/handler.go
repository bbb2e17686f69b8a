package transit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/pkg/middleware"
	"tecistock/internal/service/transitservice"
)

// TransitService define o contrato que o Handler espera da camada de Serviço.
type TransitService interface {
	AddInTransit(ctx domain.Context, input transitservice.TransitInput) (domain.InTransitItem, error)
	UpdateInTransit(ctx domain.Context, id string, input transitservice.TransitInput) (domain.InTransitItem, error)
	GetInTransitByID(ctx domain.Context, id string) (domain.InTransitItem, error)
	ListInTransit(ctx domain.Context, filter domain.TransitFilter) ([]domain.InTransitItem, error)
	ReceiveDelivery(ctx domain.Context, itemID, userID string) (domain.Fabric, string, error)
}

// ReceiveResponse é o corpo de resposta da confirmação de entrega.
type ReceiveResponse struct {
	Fabric domain.Fabric `json:"fabric"`
	Alert  string        `json:"alert"`
}

// Handler agrupa todos os métodos de Handler de itens em trânsito.
type Handler struct {
	Service TransitService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc TransitService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := map[string]interface{}{
		"code":     status,
		"category": category,
		"message":  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// InTransitHandler despacha /v1/in-transit: GET lista com filtros, POST cria.
func (h *Handler) InTransitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		filter := domain.TransitFilter{
			Search:  q.Get("search"),
			Type:    q.Get("type"),
			SubType: q.Get("sub_type"),
		}
		items, err := h.Service.ListInTransit(ctx, filter)
		h.handleServiceResponse(w, r, items, err, http.StatusOK)

	case http.MethodPost:
		var input transitservice.TransitInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusCreated)
			return
		}

		created, err := h.Service.AddInTransit(ctx, input)
		h.handleServiceResponse(w, r, created, err, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// InTransitByIDHandler despacha /v1/in-transit/{id} e
// /v1/in-transit/{id}/receive.
//
// GET busca, PUT atualiza; POST no sufixo /receive confirma a entrega,
// movendo o estoque para o inventário e removendo o item, tudo de uma vez.
func (h *Handler) InTransitByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path := strings.Trim(r.URL.Path, "/")
	segments := strings.Split(path, "/")

	// /v1/in-transit/{id}/receive
	if len(segments) == 4 && segments[3] == "receive" {
		if r.Method != http.MethodPost {
			http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
			return
		}

		claims, ok := middleware.GetUserClaimsFromContext(ctx)
		if !ok {
			h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente no contexto."), http.StatusOK)
			return
		}

		fabric, alert, err := h.Service.ReceiveDelivery(ctx, segments[2], claims.UserID)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}

		h.handleServiceResponse(w, r, ReceiveResponse{Fabric: fabric, Alert: alert}, nil, http.StatusOK)
		return
	}

	if len(segments) != 3 || segments[2] == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Formato de URL inválido ou ID ausente."), http.StatusOK)
		return
	}
	itemID := segments[2]

	switch r.Method {
	case http.MethodGet:
		item, err := h.Service.GetInTransitByID(ctx, itemID)
		h.handleServiceResponse(w, r, item, err, http.StatusOK)

	case http.MethodPut:
		var input transitservice.TransitInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
			return
		}

		updated, err := h.Service.UpdateInTransit(ctx, itemID, input)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
