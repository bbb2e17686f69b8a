package router

import (
	"net/http"
	"strings"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"tecistock/internal/api/category"
	"tecistock/internal/api/fabric"
	"tecistock/internal/api/notification"
	"tecistock/internal/api/transit"
	"tecistock/internal/api/user"
	"tecistock/internal/pkg/cache"
	"tecistock/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	fabricHandler *fabric.Handler,
	transitHandler *transit.Handler,
	notificationHandler *notification.Handler,
	userHandler *user.Handler,
	categoryHandler *category.Handler,
	tokenSvc middleware.TokenService,
	cacheClient cache.Client,
	rateLimit int,
	ratePeriod time.Duration,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	auth := middleware.NewAuthMiddleware(tokenSvc)
	rateLimiter := middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)
	limited := func(h http.HandlerFunc) http.HandlerFunc {
		return rateLimiter(h).ServeHTTP
	}

	// protected aplica rate limiting e autenticação, nessa ordem: requisições
	// acima do limite são rejeitadas antes de validar o token.
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return limited(auth(h))
	}

	// --- 1. Rotas públicas ---
	mux.HandleFunc("/ping", PingHandler)
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	mux.HandleFunc("/v1/register", limited(userHandler.RegisterUserHandler))
	mux.HandleFunc("/v1/login", limited(userHandler.LoginUserHandler))

	// --- 2. Inventário de tecidos ---
	mux.HandleFunc("/v1/fabrics", protected(fabricHandler.FabricsHandler))
	mux.HandleFunc("/v1/fabrics/summary", protected(fabricHandler.SummaryHandler))
	mux.HandleFunc("/v1/fabrics/low-stock", protected(fabricHandler.LowStockHandler))
	// O fluxo SSE fica fora do rate limiter: a conexão é única e longa.
	mux.HandleFunc("/v1/fabrics/low-stock/stream", auth(fabricHandler.LowStockStreamHandler))
	mux.HandleFunc("/v1/fabrics/", protected(fabricHandler.FabricByIDHandler))

	// --- 3. Itens em trânsito ---
	mux.HandleFunc("/v1/in-transit", protected(transitHandler.InTransitHandler))
	mux.HandleFunc("/v1/in-transit/", protected(transitHandler.InTransitByIDHandler))

	// --- 4. Notificações ---
	mux.HandleFunc("/v1/notifications", protected(notificationHandler.ListNotificationsHandler))
	mux.HandleFunc("/v1/notifications/", protected(func(w http.ResponseWriter, r *http.Request) {
		// Único sub-recurso suportado: /v1/notifications/{id}/read
		if strings.HasSuffix(r.URL.Path, "/read") {
			notificationHandler.MarkReadHandler(w, r)
			return
		}
		http.NotFound(w, r)
	}))

	// --- 5. Perfil e taxonomia ---
	mux.HandleFunc("/v1/profile", protected(userHandler.ProfileHandler))
	mux.HandleFunc("/v1/categories", protected(categoryHandler.ListCategoriesHandler))

	return mux
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
