package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"docportal/docs"
	"docportal/internal/auth"
	"docportal/internal/cache"
	"docportal/internal/config"
	"docportal/internal/content"
	"docportal/internal/handler"
	"docportal/internal/logging"
	"docportal/internal/metrics"
	"docportal/internal/middleware"
	"docportal/internal/repository"
	"docportal/internal/router"
	"docportal/internal/service"
	"docportal/internal/web"
)

// @title Documentation Portal API
// @version 1.0
// @description Session login and user administration for the LVHN jumper server documentation portal.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name docportal-session
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.UsesDefaultSecret() && cfg.IsProduction() {
		logger.Warn("JWT_SECRET is not set; sessions are signed with the built-in development secret")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	repo, err := repository.Open(cfg)
	if err != nil {
		logger.Fatal("user repository init", zap.Error(err))
	}
	users, err := service.NewUserStore(repo, cfg.SeedUsers(), logger.Named("users"), m)
	if err != nil {
		logger.Fatal("user store init", zap.Error(err))
	}

	codec := auth.NewSessionCodec(auth.SessionConfig{
		Secret:   []byte(cfg.JWTSecret),
		Lifetime: cfg.SessionMaxAge,
	})
	cookies := auth.NewCookieHelper(auth.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.IsProduction(),
		MaxAge: codec.Lifetime(),
	})
	authService := service.NewAuthService(users, codec, logger.Named("auth"), m)

	cacheClient := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
		Prefix:   "docportal:",
	}, logger.Named("cache"))
	defer func() { _ = cacheClient.Close() }()
	if cacheClient.Enabled() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(pingCtx); err != nil {
			logger.Warn("redis unreachable, rendering pages without cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
	}

	pages, err := content.LoadPages(cfg.ContentDir)
	if err != nil {
		logger.Fatal("load content", zap.Error(err))
	}
	logger.Info("content loaded", zap.String("dir", cfg.ContentDir), zap.Int("pages", len(pages)))
	docService := service.NewDocumentService(pages, content.NewRenderer(), cacheClient, cfg.DocsCacheTTL, logger.Named("docs"))

	renderer, err := web.NewRenderer()
	if err != nil {
		logger.Fatal("templates", zap.Error(err))
	}

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(authService, cookies),
		Users:         handler.NewUserHandler(users, authService, cookies),
		Pages:         handler.NewPageHandler(authService, users, cookies),
		Docs:          handler.NewDocsHandler(docService, authService, cookies),
		Questionnaire: handler.NewQuestionnaireHandler(service.NewQuestionnaireService(), authService, cookies),
	}, router.Options{
		Logger:   logger.Named("http"),
		Renderer: renderer,
		Gatherer: registry,
		Gate: middleware.SessionGate(middleware.GateConfig{
			Routes:  auth.DefaultRouteTable(),
			Codec:   codec,
			Cookies: cookies,
			Logger:  logger.Named("gate"),
			Metrics: m,
		}),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}
	logger.Info("swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", zap.String("addr", addr), zap.String("users_store", cfg.UsersStore))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
