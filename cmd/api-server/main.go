package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"mangapanel/internal/apply"
	"mangapanel/internal/auth"
	"mangapanel/internal/events"
	"mangapanel/internal/manga"
	"mangapanel/internal/ratelimit"
	"mangapanel/internal/users"
	"mangapanel/pkg/database"
	"mangapanel/pkg/utils"
)

func main() {
	utils.LoadDotenv()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	var rdb *redis.Client
	if srvCfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: srvCfg.RedisAddr})
		defer rdb.Close()
	}
	limiter := ratelimit.New(rdb, 10, time.Minute)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := events.NewHub()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "not_ready",
				"db_error": err.Error(),
				"clients":  stats.Clients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ready",
			"db":      "ok",
			"clients": stats.Clients,
		})
	})

	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}

	api := router.Group("/api")

	// Auth (public, throttled)
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authGroup := api.Group("", limiter.Middleware("auth"))
	authHandler.RegisterRoutes(authGroup)

	// Manga admin
	mangaRepo := manga.NewRepo(db)
	mangaHandler := manga.NewHandler(mangaRepo, hub)
	mangaHandler.RegisterRoutes(api, tokenSvc)

	// User admin
	usersHandler := users.NewHandler(authRepo)
	usersHandler.RegisterRoutes(api, tokenSvc)

	// Translator applications (public, throttled)
	notifier := apply.NewNotifier(srvCfg.WebhookURL)
	applyHandler := apply.NewHandler(notifier)
	applyGroup := api.Group("", limiter.Middleware("apply"))
	applyHandler.RegisterRoutes(applyGroup)

	// Admin event feed
	router.GET("/ws",
		auth.Middleware(tokenSvc),
		auth.Require(auth.OpMangaRead),
		events.WSHandler(hub),
	)

	corsWrapper := cors.New(cors.Options{
		AllowedOrigins:   srvCfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: corsWrapper.Handler(router),
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("server stopped")
}
