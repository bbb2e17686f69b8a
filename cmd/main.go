package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Documentação Swagger gerada (registrada via side effect)
	_ "tecistock/docs"

	// Nossos pacotes de infraestrutura e utilitários
	"tecistock/config"
	"tecistock/internal/lowstock"
	"tecistock/internal/pkg/cache"
	"tecistock/internal/pkg/database"
	"tecistock/internal/pkg/logger"
	"tecistock/internal/pkg/token"
	"tecistock/internal/taxonomy"

	// Camadas da aplicação para Injeção de Dependências
	"tecistock/internal/api/category"
	"tecistock/internal/api/fabric"
	"tecistock/internal/api/notification"
	"tecistock/internal/api/router"
	"tecistock/internal/api/transit"
	"tecistock/internal/api/user"
	"tecistock/internal/repository/fabricrepo"
	"tecistock/internal/repository/notificationrepo"
	"tecistock/internal/repository/transitrepo"
	"tecistock/internal/repository/userrepo"
	"tecistock/internal/service/fabricservice"
	"tecistock/internal/service/notificationservice"
	"tecistock/internal/service/transitservice"
	"tecistock/internal/service/userservice"
)

// @title Tecistock API
// @version 1.0
// @description API de gestão de inventário de tecidos: estoque, entregas em trânsito e notificações de estoque baixo.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Configuração e Inicialização
	stdlog.Println("⚡ Inicializando serviço Tecistock...")

	// 0. CARREGAR VARIÁVEIS DE AMBIENTE (.env)
	if err := godotenv.Load(); err != nil {
		// Sem .env seguimos em frente: as variáveis essenciais podem estar
		// no ambiente do sistema (ex: Docker).
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", nil)

	// 2. Conexão com Recursos de Infraestrutura

	// A. Banco de Dados (PostgreSQL)
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Falha ao conectar ao banco de dados.", err)
	}
	defer db.Close()
	log.Info("Conexão PostgreSQL estabelecida.", nil)

	// B. Cache (Redis)
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Conexão Redis estabelecida.", nil)

	// C. Taxonomia de categorias (arquivo versionado ou padrão embutido)
	categories, err := taxonomy.Load(cfg.CategoriesFile)
	if err != nil {
		log.Fatal("Falha ao carregar taxonomia de categorias.", err)
	}
	log.Info("Taxonomia de categorias carregada.", map[string]interface{}{"categorias": len(categories.Categories())})

	// D. Hub de snapshots de estoque baixo (assinantes SSE)
	hub := lowstock.NewHub()

	// E. Serviço de Tokens (JWT)
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	log.Debug("Serviço de Tokens JWT inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS (Montagem da Clean Architecture)
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (Camada de Acesso a Dados)
	fabricRepo := fabricrepo.NewFabricRepository(db, cacheClient, cfg.CacheTTL, cfg.DBTimeout, log)
	transitRepo := transitrepo.NewTransitRepository(db, cacheClient, cfg.DBTimeout, log)
	notificationRepo := notificationrepo.NewNotificationRepository(db, cfg.DBTimeout, log)
	userRepo := userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	log.Debug("Repositórios inicializados.", nil)

	// B. Serviços (Camada de Lógica de Negócio)
	notificationSvc := notificationservice.NewService(notificationRepo, log)
	fabricSvc := fabricservice.NewService(fabricRepo, userRepo, notificationSvc, cacheClient, cfg.DeleteConfirmTTL, hub, categories, log)
	transitSvc := transitservice.NewService(transitRepo, fabricSvc, categories, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, log)
	log.Debug("Serviços inicializados.", nil)

	// C. Handlers (Camada de Apresentação)
	fabricHandler := fabric.NewHandler(fabricSvc, log)
	transitHandler := transit.NewHandler(transitSvc, log)
	notificationHandler := notification.NewHandler(notificationSvc, log)
	userHandler := user.NewHandler(userSvc, log)
	categoryHandler := category.NewHandler(categories, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(
		fabricHandler, transitHandler, notificationHandler, userHandler, categoryHandler,
		tokenSvc, cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod,
	)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// WriteTimeout zerado: o fluxo SSE de estoque baixo mantém a
		// resposta aberta por tempo indeterminado.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor Tecistock ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
