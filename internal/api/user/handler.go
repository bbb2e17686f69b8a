package user

import (
	"context"
	"encoding/json"
	"net/http"

	"tecistock/internal/domain"
	apperror "tecistock/internal/errors"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/pkg/middleware"
)

// UserService define o contrato para as operações de conta e perfil.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, domain.User, error)
	GetProfile(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (domain.User, error)
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carrega o token de sessão e o perfil do usuário autenticado.
type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse padroniza o tratamento de erros e respostas HTTP.
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

	// Log apenas de erros graves
	if status >= 500 {
		h.Logger.Error("Erro interno no serviço de usuário:", err)
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

// RegisterUserHandler lida com a requisição POST /v1/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados. Ambos os canais de notificação nascem habilitados.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email, senha e nome de exibição)"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido (JSON malformado ou campos obrigatórios ausentes)"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusCreated)
		return
	}

	// O objeto retornado pelo serviço já tem o PasswordHash limpo na
	// serialização, pois a struct domain.User usa a tag `json:"-"`.
	newUser, err := h.Service.Register(ctx, reg)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, newUser, nil, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Description Recebe email/senha, verifica a validade e emite um JSON Web Token junto com o perfil.
// @Tags users
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais do usuário (email e senha)"
// @Success 200 {object} LoginResponse "Token JWT emitido e perfil do usuário"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var loginReq LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
		return
	}

	token, user, err := h.Service.Login(ctx, loginReq.Email, loginReq.Password)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, LoginResponse{Token: token, User: user}, nil, http.StatusOK)
}

// ProfileHandler despacha /v1/profile: GET retorna o perfil do usuário
// autenticado, PUT atualiza nome de exibição e preferências de notificação.
// @Summary Consulta ou atualiza o perfil
// @Description GET retorna o perfil do usuário da sessão; PUT atualiza nome de exibição e preferências (o email é imutável).
// @Tags users
// @Accept json
// @Produce json
// @Param profile body domain.ProfileUpdate true "Campos mutáveis do perfil"
// @Success 200 {object} domain.User "Perfil do usuário"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Sessão ausente ou token inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security BearerAuth
// @Router /profile [get]
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := middleware.GetUserClaimsFromContext(ctx)
	if !ok {
		h.handleServiceResponse(w, r, nil, apperror.NewUnauthorizedError("Sessão ausente no contexto."), http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := h.Service.GetProfile(ctx, claims.UserID)
		h.handleServiceResponse(w, r, user, err, http.StatusOK)

	case http.MethodPut:
		var update domain.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload JSON inválido."), http.StatusOK)
			return
		}

		updated, err := h.Service.UpdateProfile(ctx, claims.UserID, update)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)

	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
