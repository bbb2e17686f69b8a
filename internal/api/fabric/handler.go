package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/pkg/middleware"
	"tecistock/internal/service/fabricservice"
)

// FabricService define o contrato que o Handler espera da camada de Serviço.
// Usamos a assinatura com o tipo abstrato domain.Context para manter a pureza do domínio.
type FabricService interface {
	CreateFabric(ctx domain.Context, input fabricservice.FabricInput, userID string) (domain.Fabric, string, error)
	UpdateFabric(ctx domain.Context, id string, input fabricservice.FabricInput, userID string) (domain.Fabric, string, error)
	GetFabricByID(ctx domain.Context, id string) (domain.Fabric, error)
	ListFabrics(ctx domain.Context, filter domain.FabricFilter) ([]domain.Fabric, error)
	ListLowStock(ctx domain.Context, filter domain.FabricFilter) ([]domain.Fabric, error)
	Summary(ctx domain.Context) (domain.InventorySummary, error)
	ArmDelete(ctx domain.Context, id string) (string, error)
	ConfirmDelete(ctx domain.Context, id, token string) error
	SubscribeLowStock(ctx context.Context) (<-chan []domain.Fabric, func())
}

// MutationResponse é o corpo de resposta das mutações de inventário: o tecido
// resultante, a mensagem de sucesso e o eventual aviso de estoque baixo.
type MutationResponse struct {
	Fabric  domain.Fabric `json:"fabric"`
	Alert   string        `json:"alert"`
	Warning string        `json:"warning,omitempty"`
}

// ArmDeleteResponse carrega o token da exclusão em duas etapas.
type ArmDeleteResponse struct {
	ConfirmToken string `json:"confirm_token"`
	Message      string `json:"message"`
}

// Handler agrupa todos os métodos de Handler de tecidos.
type Handler struct {
	Service FabricService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc FabricService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		// Sucesso
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

	// TRATAMENTO DE ERROS
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

// filterFromQuery extrai o filtro conjuntivo da query string.
func filterFromQuery(r *http.Request) domain.FabricFilter {
	q := r.URL.Query()
	return domain.FabricFilter{
		Search:  q.Get("search"),
		Type:    q.Get("type"),
		SubType: q.Get("sub_type"),
	}
}

// FabricsHandler despacha /v1/fabrics: GET lista com filtros, POST cria.
// @Summary Lista ou cria tecidos
// @Description GET lista os tecidos (filtros: search, type, sub_type); POST cria um novo tecido.
// @Tags fabrics
// @Accept json
// @Produce json
// @Param search query string false "Substring sobre nome ou tipo (case-insensitive)"
// @Param type query string false "Igualdade exata sobre o tipo"
// @Param sub_type query string false "Igualdade exata sobre o subtipo"
// @Success 200 {array} domain.Fabric "Tecidos filtrados"
// @Success 201 {object} MutationResponse "Tecido criado"
// @Failure 400 {object} domain.ErrorResponse "Payload ou filtro inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /fabrics [get]
func (h *Handler) FabricsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		fabrics, err := h.Service.ListFabrics(ctx, filterFromQuery(r))
		h.handleServiceResponse(w, r, fabrics, err, http.StatusOK)

	case http.MethodPost:
		claims, ok := middleware.GetUserClaimsFromContext(ctx)
		if !ok {
			h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente no contexto."), http.StatusCreated)
			return
		}

		var input fabricservice.FabricInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusCreated)
			return
		}

		created, warning, err := h.Service.CreateFabric(ctx, input, claims.UserID)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
			return
		}

		h.handleServiceResponse(w, r, MutationResponse{
			Fabric:  created,
			Alert:   "Tecido adicionado com sucesso!",
			Warning: warning,
		}, nil, http.StatusCreated)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// FabricByIDHandler despacha /v1/fabrics/{id}: GET busca, PUT atualiza,
// DELETE executa a exclusão em duas etapas.
//
// Sem o header X-Confirm-Token, o DELETE apenas ARMA a exclusão e responde
// 202 com o token; com o header, a exclusão é confirmada e responde 204.
func (h *Handler) FabricByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	path := strings.Trim(r.URL.Path, "/")
	segments := strings.Split(path, "/")
	if len(segments) != 3 || segments[2] == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Formato de URL inválido ou ID ausente."), http.StatusOK)
		return
	}
	fabricID := segments[2]

	switch r.Method {
	case http.MethodGet:
		fabric, err := h.Service.GetFabricByID(ctx, fabricID)
		h.handleServiceResponse(w, r, fabric, err, http.StatusOK)

	case http.MethodPut:
		claims, ok := middleware.GetUserClaimsFromContext(ctx)
		if !ok {
			h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente no contexto."), http.StatusOK)
			return
		}

		var input fabricservice.FabricInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), http.StatusOK)
			return
		}

		updated, warning, err := h.Service.UpdateFabric(ctx, fabricID, input, claims.UserID)
		if err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusOK)
			return
		}

		h.handleServiceResponse(w, r, MutationResponse{
			Fabric:  updated,
			Alert:   "Tecido atualizado com sucesso!",
			Warning: warning,
		}, nil, http.StatusOK)

	case http.MethodDelete:
		confirmToken := r.Header.Get("X-Confirm-Token")
		if confirmToken == "" {
			token, err := h.Service.ArmDelete(ctx, fabricID)
			if err != nil {
				h.handleServiceResponse(w, r, nil, err, http.StatusAccepted)
				return
			}
			h.handleServiceResponse(w, r, ArmDeleteResponse{
				ConfirmToken: token,
				Message:      "Exclusão armada. Repita a requisição com o header X-Confirm-Token para confirmar.",
			}, nil, http.StatusAccepted)
			return
		}

		if err := h.Service.ConfirmDelete(ctx, fabricID, confirmToken); err != nil {
			h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
			return
		}
		h.handleServiceResponse(w, r, nil, nil, http.StatusNoContent)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// LowStockHandler lida com a requisição GET /v1/fabrics/low-stock.
// @Summary Lista os tecidos com estoque baixo
// @Description Retorna os tecidos cuja quantidade está menor ou igual ao estoque mínimo, com os mesmos filtros da listagem geral.
// @Tags fabrics
// @Produce json
// @Param search query string false "Substring sobre nome ou tipo (case-insensitive)"
// @Param type query string false "Igualdade exata sobre o tipo"
// @Param sub_type query string false "Igualdade exata sobre o subtipo"
// @Success 200 {array} domain.Fabric "Tecidos com estoque baixo"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /fabrics/low-stock [get]
func (h *Handler) LowStockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	fabrics, err := h.Service.ListLowStock(r.Context(), filterFromQuery(r))
	h.handleServiceResponse(w, r, fabrics, err, http.StatusOK)
}

// SummaryHandler lida com a requisição GET /v1/fabrics/summary.
// @Summary Indicadores agregados do inventário
// @Description Retorna totais de tecidos, contagem de estoque baixo, valor total e quantidade média.
// @Tags fabrics
// @Produce json
// @Success 200 {object} domain.InventorySummary "Indicadores do painel"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /fabrics/summary [get]
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.Service.Summary(r.Context())
	h.handleServiceResponse(w, r, summary, err, http.StatusOK)
}

// LowStockStreamHandler lida com GET /v1/fabrics/low-stock/stream, um fluxo
// Server-Sent Events. Cada evento carrega o conjunto COMPLETO de tecidos com
// estoque baixo; o cliente substitui seu estado a cada entrega, em vez de
// aplicar diffs. O snapshot atual é enviado imediatamente na conexão.
func (h *Handler) LowStockStreamHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming não suportado", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	snapshots, cancel := h.Service.SubscribeLowStock(ctx)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.Logger.Info("Assinante conectado ao fluxo de estoque baixo.", map[string]interface{}{"remote": r.RemoteAddr})

	for {
		select {
		case <-ctx.Done():
			h.Logger.Debug("Assinante desconectado do fluxo de estoque baixo.", map[string]interface{}{"remote": r.RemoteAddr})
			return

		case snapshot, open := <-snapshots:
			if !open {
				return
			}
			payload, err := json.Marshal(snapshot)
			if err != nil {
				h.Logger.Error("Falha ao serializar snapshot de estoque baixo.", err)
				continue
			}
			fmt.Fprintf(w, "event: low-stock\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
