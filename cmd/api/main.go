package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/rafabene/sample-app/docs"
	"github.com/rafabene/sample-app/internal/domain/ports"
	httphandlers "github.com/rafabene/sample-app/internal/handlers/http"
	"github.com/rafabene/sample-app/internal/handlers/middleware"
	"github.com/rafabene/sample-app/internal/infrastructure/auth"
	"github.com/rafabene/sample-app/internal/infrastructure/config"
	"github.com/rafabene/sample-app/internal/infrastructure/i18n"
	"github.com/rafabene/sample-app/internal/infrastructure/logging"
	"github.com/rafabene/sample-app/internal/infrastructure/mail"
	"github.com/rafabene/sample-app/internal/infrastructure/metrics"
	"github.com/rafabene/sample-app/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/sample-app/internal/infrastructure/security"
	"github.com/rafabene/sample-app/internal/services"
)

// devJWTSecret só é usado fora de produção quando JWT_SECRET não foi definido
const devJWTSecret = "development-only-secret"

//	@title						Sample App API
//	@version					1.0
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Inicializar logger
	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting sample app",
		"env", cfg.Env,
		"version", "dev",
	)

	// Conectar ao banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Env, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}

	// Inicializar i18n
	i18nService, err := i18n.NewEmbeddedService("en")
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Envio de emails: direto por SMTP ou pela fila no Redis
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	var workers sync.WaitGroup

	composer := mail.NewComposer(cfg.Server.AppURL)
	sender := mail.NewSMTPSender(cfg.SMTP, logger)
	var mailer ports.Mailer = mail.NewDirectMailer(composer, sender)

	if cfg.Mail.QueueEnabled {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("invalid REDIS_URL", "error", err)
			log.Fatal(err)
		}
		rdb := redis.NewClient(opts)
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(workerCtx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			log.Fatal(err)
		}

		mailer = mail.NewQueueMailer(composer, rdb, cfg.Mail.QueueKey)
		worker := mail.NewWorker(rdb, cfg.Mail.QueueKey, sender, logger)

		workers.Add(1)
		go func() {
			defer workers.Done()
			worker.Run(workerCtx)
		}()
		logger.Info("mail queue enabled", "key", cfg.Mail.QueueKey)
	}

	// Inicializar repositories
	userRepo := postgres.NewUserRepository(db)
	relRepo := postgres.NewRelationshipRepository(db)
	micropostRepo := postgres.NewMicropostRepository(db)
	uow := postgres.NewUnitOfWork(db)

	// Inicializar services
	digester := security.NewBcryptDigester(security.CostFor(cfg.Env, cfg.Security.BcryptCost))
	userService := services.NewUserService(userRepo, relRepo, micropostRepo, uow, digester, security.NewToken, mailer, logger)
	micropostService := services.NewMicropostService(micropostRepo, userRepo, logger)

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		logger.Warn("JWT_SECRET not set, using development secret")
		jwtSecret = devJWTSecret
	}
	tokenService := auth.NewTokenService(jwtSecret, cfg.JWT.AccessExpiry)

	// Inicializar handlers
	secureCookies := cfg.Env == "production"
	sessionHandler := httphandlers.NewSessionHandler(userService, tokenService, logger, secureCookies)
	handlers := httphandlers.Handlers{
		Users:         httphandlers.NewUserHandler(userService, logger),
		Sessions:      sessionHandler,
		Accounts:      httphandlers.NewAccountHandler(userService, sessionHandler, logger),
		Relationships: httphandlers.NewRelationshipHandler(userService, logger),
		Microposts:    httphandlers.NewMicropostHandler(micropostService, logger),
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService, logger)

	// Setup Gin
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Middleware global para adicionar base URL ao contexto
	router.Use(func(c *gin.Context) {
		c.Set("base_url", cfg.Server.BaseURL)
		c.Next()
	})

	router.Use(metrics.Middleware())

	// Middleware i18n
	i18nMiddleware := middleware.NewI18nMiddleware(i18nService)
	router.Use(i18nMiddleware.DetectLanguage())

	// Middleware CORS
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	httphandlers.RegisterRoutes(router.Group("/api/v1"), handlers, authMiddleware)

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	stopWorker()
	workers.Wait()

	logger.Info("server exited")
}
