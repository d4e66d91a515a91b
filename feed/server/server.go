package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	controllers_feed "github.com/CPU-commits/CareerNest/feed/controllers"
	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/metrics"
	"github.com/CPU-commits/CareerNest/middlewares"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/CPU-commits/CareerNest/settings"
	"github.com/CPU-commits/CareerNest/stack"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const QUEUE = "careernest-feed"

var settingsData = settings.GetSettings()

// MessageHandler adapts the listing events controller to a nats subscription.
func MessageHandler(ctx context.Context, controller *controllers_feed.ListingEventsController, logger *zap.Logger) nats.MsgHandler {
	return func(msg *nats.Msg) {
		ctx, cancel := context.WithTimeout(ctx, db.QUERY_TIMEOUT)
		defer cancel()

		err := controller.Handle(ctx, msg.Subject, msg.Data)
		metrics.NatsMessagesReceived.WithLabelValues(msg.Subject, metrics.StatusLabel(err)).Inc()
		if err != nil {
			logger.Error("listing event", zap.String("subject", msg.Subject), zap.Error(err))
		}
	}
}

func NewRouter(scheduler *Scheduler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/metrics", "/api/feed/healthz"},
	}))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(middlewares.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/api/feed/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, &res.Response{
			Success: true,
		})
	})
	router.GET("/api/feed/reindex", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, &res.Response{
			Success: true,
			Data: gin.H{
				"runs": scheduler.Status(),
			},
		})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, res.Response{
			Success: false,
			Message: "Not found",
		})
	})
	return router
}

func Init() {
	var logger *zap.Logger
	var err error
	if settingsData.IsProd() {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	mongoConn, err := db.NewConnection(
		settingsData.MONGO_CONNECTION,
		settingsData.MONGO_HOST,
		settingsData.MONGO_DB,
	)
	if err != nil {
		logger.Fatal("mongo", zap.Error(err))
	}
	if err := models.Init(mongoConn); err != nil {
		logger.Fatal("models", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), db.QUERY_TIMEOUT)
	redisClient, err := db.NewRedisClient(ctx, settingsData.REDIS_URL)
	cancel()
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	natsClient, err := stack.NewNats(settingsData.NATS_HOST, "careernest-feed")
	if err != nil {
		logger.Fatal("nats", zap.Error(err))
	}
	es, err := db.NewConnectionEs(db.EsConfig{
		Host:       settingsData.ELS_HOST,
		Port:       settingsData.ELS_PORT,
		Username:   settingsData.ELS_USERNAME,
		Password:   settingsData.ELS_PASSWORD,
		Secure:     settingsData.IsProd(),
		CACertFile: settingsData.ELS_CA_CERT,
		SkipVerify: settingsData.ELS_SKIP_VERIFY,
	})
	if err != nil {
		logger.Fatal("elasticsearch", zap.Error(err))
	}

	repos := repositories.NewListingRepositories()
	listings := services.NewListingsService(repos, logger)
	indexer := services.NewIndexerService(es, logger)
	whatsNew := services.NewWhatsNewService(
		listings,
		services.NewSearchService(services.NewMongoSearchEngine(repos), settingsData.SEARCH_KINDS, logger),
		repositories.NewCacheRepository("latest", redisClient),
		settingsData.LATEST_CACHE_TTL,
		logger,
	)
	controller := &controllers_feed.ListingEventsController{
		Repos:    repos,
		Indexer:  indexer,
		WhatsNew: whatsNew,
		Logger:   logger,
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	sub, err := natsClient.QueueSubscribe(services.SUBJECT_LISTINGS, QUEUE, MessageHandler(runCtx, controller, logger))
	if err != nil {
		logger.Fatal("subscribe", zap.String("subject", services.SUBJECT_LISTINGS), zap.Error(err))
	}
	scheduler := NewScheduler(settingsData.REINDEX_SPEC, indexer, repos, logger)
	if err := scheduler.Start(runCtx); err != nil {
		logger.Fatal("scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + settingsData.PORT,
		Handler:           NewRouter(scheduler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("feed server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down feed worker")

	if err := sub.Drain(); err != nil {
		logger.Error("drain subscription", zap.Error(err))
	}
	stop()
	scheduler.Stop()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	natsClient.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error("redis close", zap.Error(err))
	}
	if err := mongoConn.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect", zap.Error(err))
	}
}
