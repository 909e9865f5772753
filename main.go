package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/signupsvc/signup-service/handlers"
	"github.com/signupsvc/signup-service/internal/config"
	"github.com/signupsvc/signup-service/internal/database"
	"github.com/signupsvc/signup-service/internal/signup/handler"
	"github.com/signupsvc/signup-service/internal/signup/repository"
	"github.com/signupsvc/signup-service/internal/signup/service"
	"github.com/signupsvc/signup-service/pkg/logger"
	"github.com/signupsvc/signup-service/pkg/metrics"
	"github.com/signupsvc/signup-service/pkg/middleware"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

// deps are the long-lived handles built at startup and shared by every request.
type deps struct {
	cfg    *config.Config
	svc    *service.Service
	redis  *redis.Client
	checks map[string]handlers.Check
}

// newService picks the signup store. Without MONGODB_URI signups live in
// memory; with it the store must be reachable, otherwise an error is returned.
func newService(ctx context.Context, cfg *config.Config, connect database.ConnectFunc, backoff time.Duration) (*service.Service, *mongo.Client, error) {
	if cfg.MongoDB.URI == "" {
		logger.Warnf("MONGODB_URI not set; signups are kept in memory only")
		return service.NewMemoryService(), nil, nil
	}
	client, err := database.ConnectWithRetry(ctx, connect, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, backoff)
	if err != nil {
		return nil, nil, err
	}
	col := client.Database(cfg.MongoDB.Database).Collection(cfg.MongoDB.Collection)
	logger.Infof("storing signups in %s.%s", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	return service.NewService(repository.NewMongoRepo(col)), client, nil
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	handlers.RegisterHealth(r, startTime, 2*time.Second, d.checks)
	handlers.RegisterSwagger(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	signupRoutes := r.Group("/")
	if d.cfg.RateLimit.Enabled {
		if d.cfg.RateLimit.UseRedis && d.redis != nil {
			win := time.Duration(d.cfg.RateLimit.WindowSeconds) * time.Second
			signupRoutes.Use(middleware.RedisRateLimitMiddleware(d.redis, d.cfg.RateLimit.RPS, d.cfg.RateLimit.Burst, win))
		} else {
			signupRoutes.Use(middleware.RateLimitMiddleware(d.cfg.RateLimit.RPS, d.cfg.RateLimit.Burst))
		}
	}
	handler.RegisterSignupRoutes(signupRoutes, d.svc, handler.Options{ExposeErrors: d.cfg.Signup.ExposeErrors})
	return r
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	gin.SetMode(gin.ReleaseMode)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s mongo=%v redis=%v rate_limit=%v", cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := deps{cfg: cfg, checks: map[string]handlers.Check{}}

	svc, mongoClient, err := newService(ctx, cfg, database.ConnectMongo, time.Second)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	d.svc = svc
	if mongoClient != nil {
		d.checks["mongo"] = func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }
	}

	if cfg.Redis.Host != "" {
		d.redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := d.redis.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		}
		rc := d.redis
		d.checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(d),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("starting signup service on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infof("shutdown signal received")
	case err := <-errCh:
		logger.Errorf("server failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Errorf("mongo disconnect: %v", err)
		}
	}
	if d.redis != nil {
		_ = d.redis.Close()
	}
	logger.Infof("signup service stopped")
}
