package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/Dhruvraj1821/chatify/cmd/api/router/v1"
	cacheAdapter "github.com/Dhruvraj1821/chatify/internal/infrastructure/cache/adapter"
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/database"
	queueAdapter "github.com/Dhruvraj1821/chatify/internal/infrastructure/queue/adapter"
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/ratelimit"
	"github.com/Dhruvraj1821/chatify/internal/infrastructure/realtime"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/task"
	identityUsecase "github.com/Dhruvraj1821/chatify/internal/pkg/identity/application/usecase"
	identityRepo "github.com/Dhruvraj1821/chatify/internal/pkg/identity/persistence/repository/adapter"
	"github.com/Dhruvraj1821/chatify/internal/pkg/identity/token"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	pool, err := database.NewPoolFromEnv(ctx)
	cancel()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer cache.Close()

	tokens, err := token.NewManagerFromEnv()
	if err != nil {
		log.Fatalf("failed to configure token manager: %v", err)
	}

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatalf("failed to create queue client: %v", err)
	}
	defer queueClient.Close()

	worker, err := queueAdapter.NewAsynqServer()
	if err != nil {
		log.Fatalf("failed to create queue worker: %v", err)
	}
	task.RegisterWelcomeEmailTask(worker, task.LogMailer{})

	limiter, err := ratelimit.NewLimiterFromEnv()
	if err != nil {
		// Rate limiting degrades open when redis is unavailable.
		log.Printf("warning: rate limiter disabled: %v", err)
		limiter = nil
	}

	sessions := identityUsecase.NewValidateSessionUseCase(tokens, identityRepo.NewPgUserRepository(pool), cache)

	registry := realtime.NewRegistry()
	presence := realtime.NewPresenceBroadcaster(registry)
	msgRouter := realtime.NewMessageRouter(registry)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, v1.Deps{
		Pool:     pool,
		Tokens:   tokens,
		Queue:    queueClient,
		Sessions: sessions,
		Registry: registry,
		Presence: presence,
		Router:   msgRouter,
		Limiter:  limiter,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := worker.Run(runCtx); err != nil {
			log.Printf("queue worker stopped: %v", err)
		}
	}()

	addr := ":" + port()
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-runCtx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	// Closing the registry drops every live websocket after the HTTP server
	// stops accepting new ones.
	registry.Close()
	if limiter != nil {
		limiter.Close()
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
