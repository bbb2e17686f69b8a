package notification

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
)

// NotificationService define o contrato que o Handler espera da camada de Serviço.
type NotificationService interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// Handler agrupa todos os métodos de Handler de notificações.
type Handler struct {
	Service NotificationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc NotificationService, log logger.Logger) *Handler {
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
			json.NewEncoder(w).Encode(data)
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
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

// ListNotificationsHandler lida com a requisição GET /v1/notifications.
// Retorna as notificações do usuário autenticado, da mais recente para a
// mais antiga.
func (h *Handler) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente no contexto."), http.StatusOK)
		return
	}

	notifications, err := h.Service.ListByUser(ctx, claims.UserID)
	h.handleServiceResponse(w, r, notifications, err, http.StatusOK)
}

// MarkReadHandler lida com a requisição PATCH /v1/notifications/{id}/read.
func (h *Handler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente no contexto."), http.StatusNoContent)
		return
	}

	path := strings.Trim(r.URL.Path, "/")
	segments := strings.Split(path, "/")
	if len(segments) != 4 || segments[3] != "read" || segments[2] == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Formato de URL inválido ou ID ausente."), http.StatusNoContent)
		return
	}

	err := h.Service.MarkRead(ctx, segments[2], claims.UserID)
	h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
}
