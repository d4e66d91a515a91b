package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CPU-commits/CareerNest/aws_s3"
	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/CPU-commits/CareerNest/settings"
	"github.com/CPU-commits/CareerNest/stack"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var settingsData = settings.GetSettings()

func NewLogger() (*zap.Logger, error) {
	if settingsData.IsProd() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// NewSearchEngine prefers elasticsearch when it is configured and reachable.
func NewSearchEngine(repos map[models.Kind]repositories.ListingRepository, logger *zap.Logger) services.SearchEngine {
	if settingsData.SEARCH_ENGINE != "elastic" {
		return services.NewMongoSearchEngine(repos)
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
		logger.Warn("elasticsearch unavailable, searching mongo", zap.Error(err))
		return services.NewMongoSearchEngine(repos)
	}
	return services.NewElasticSearchEngine(es, repos)
}

func NewServices(
	redisClient *redis.Client,
	publisher services.Publisher,
	engine services.SearchEngine,
	repos map[models.Kind]repositories.ListingRepository,
	logger *zap.Logger,
) *Services {
	users := repositories.NewUserRepository()
	otps := repositories.NewOTPRepository(redisClient)

	auth := services.NewAuthService(settingsData.JWT_SECRET_KEY, settingsData.JWT_TTL)
	listings := services.NewListingsService(repos, logger)
	search := services.NewSearchService(engine, settingsData.SEARCH_KINDS, logger)

	var presigner services.Presigner
	if s3, err := aws_s3.NewAWSS3(settingsData.AWS_REGION, settingsData.AWS_BUCKET); err == nil {
		presigner = s3
	} else {
		logger.Warn("paper downloads disabled", zap.Error(err))
	}

	return &Services{
		Auth:     auth,
		Listings: listings,
		Search:   search,
		WhatsNew: services.NewWhatsNewService(
			listings,
			search,
			repositories.NewCacheRepository("latest", redisClient),
			settingsData.LATEST_CACHE_TTL,
			logger,
		),
		Accounts: services.NewAccountsService(users, otps, auth, publisher, logger),
		Recovery: services.NewRecoveryService(
			users,
			otps,
			repositories.NewResetSessionRepository(redisClient),
			publisher,
			logger,
		),
		Preferences: services.NewPreferencesService(users, listings, publisher, logger),
		Exports:     services.NewExportService(listings, "https://"+settingsData.CLIENT_URL, logger),
		Papers:      services.NewPapersService(listings, presigner, settingsData.PAPER_URL_TTL, logger),
	}
}

func Init() {
	logger, err := NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	if settingsData.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	if settingsData.JWT_SECRET_KEY == "" {
		logger.Fatal("JWT_SECRET_KEY is required")
	}
	// Stores
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
	nats, err := stack.NewNats(settingsData.NATS_HOST, "careernest-query")
	if err != nil {
		logger.Fatal("nats", zap.Error(err))
	}
	repos := repositories.NewListingRepositories()
	router, err := NewRouter(
		NewServices(redisClient, nats, NewSearchEngine(repos, logger), repos, logger),
		Options{
			SiteName:      settingsData.SITE_NAME,
			SiteURL:       "https://" + settingsData.CLIENT_URL,
			ClientURL:     settingsData.CLIENT_URL,
			Prod:          settingsData.IsProd(),
			AuthRateLimit: 20,
		},
		logger,
	)
	if err != nil {
		logger.Fatal("router", zap.Error(err))
	}
	// Init server
	srv := &http.Server{
		Addr:              ":" + settingsData.PORT,
		Handler:           gzhttp.GzipHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("query server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down query server")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	nats.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error("redis close", zap.Error(err))
	}
	if err := mongoConn.Disconnect(ctx); err != nil {
		logger.Error("mongo disconnect", zap.Error(err))
	}
}
