package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CPU-commits/CareerNest/controllers"
	"github.com/CPU-commits/CareerNest/middlewares"
	"github.com/CPU-commits/CareerNest/models"
	controllers_query "github.com/CPU-commits/CareerNest/query/controllers"
	"github.com/CPU-commits/CareerNest/query/docs"
	"github.com/CPU-commits/CareerNest/res"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/CPU-commits/CareerNest/templates"
	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Services the router needs. Tests build it with in-memory stores.
type Services struct {
	Auth        *services.AuthService
	Listings    *services.ListingsService
	Search      *services.SearchService
	WhatsNew    *services.WhatsNewService
	Accounts    *services.AccountsService
	Recovery    *services.RecoveryService
	Preferences *services.PreferencesService
	Exports     *services.ExportService
	Papers      *services.PapersService
}

type Options struct {
	SiteName  string
	SiteURL   string
	ClientURL string
	Prod      bool
	// Requests per minute and IP on the auth groups, 0 disables the limit
	AuthRateLimit uint
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}

func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, &res.Response{
		Success: false,
		Message: "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
	})
}

func routeSegment(spec models.KindSpec) string {
	return strings.TrimPrefix(spec.Prefix, "/")
}

func NewRouter(s *Services, opts Options, logger *zap.Logger) (*gin.Engine, error) {
	router := gin.New()
	// Proxies
	router.SetTrustedProxies([]string{"localhost"})
	// Zap looger
	router.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/metrics", "/api/healthz"},
	}))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, res.Response{
			Success: false,
			Message: "Server Internal Error",
		})
	}))
	// Docs
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Version = "v1"
	docs.SwaggerInfo.Host = opts.ClientURL
	// CORS
	httpOrigin := "http://" + opts.ClientURL
	httpsOrigin := "https://" + opts.ClientURL
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{httpOrigin, httpsOrigin},
		AllowMethods:     []string{"GET", "OPTIONS", "PUT", "DELETE", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowWebSockets:  false,
		MaxAge:           12 * time.Hour,
	}))
	// Secure
	router.Use(secure.New(secure.Config{
		STSSeconds:           315360000,
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		IENoOpen:             true,
		ReferrerPolicy:       "strict-origin-when-cross-origin",
		IsDevelopment:        !opts.Prod,
		SSLProxyHeaders: map[string]string{
			"X-Forwarded-Proto": "https",
		},
	}))
	router.Use(middlewares.PrometheusMiddleware())
	// Templates
	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	// Validators
	if err := InitValidators(); err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}
	// Rate limit
	limited := []gin.HandlerFunc{}
	if opts.AuthRateLimit > 0 {
		store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
			Rate:  time.Minute,
			Limit: opts.AuthRateLimit,
		})
		limited = append(limited, ratelimit.RateLimiter(store, &ratelimit.Options{
			ErrorHandler: ErrorHandler,
			KeyFunc:      keyFunc,
		}))
	}
	jwt := middlewares.JWTMiddleware(s.Auth)
	optionalAuth := middlewares.OptionalAuth(s.Auth)

	// Init controllers
	listingsController := &controllers_query.ListingsController{
		Listings: s.Listings,
		Exports:  s.Exports,
	}
	searchController := &controllers_query.SearchController{
		SearchService: s.Search,
	}
	feedController := &controllers_query.FeedController{
		WhatsNew:    s.WhatsNew,
		Preferences: s.Preferences,
	}
	pagesController := &controllers_query.PagesController{
		Listings:    s.Listings,
		WhatsNew:    s.WhatsNew,
		Preferences: s.Preferences,
		Exports:     s.Exports,
		Papers:      s.Papers,
		SiteName:    opts.SiteName,
		SiteURL:     opts.SiteURL,
		Logger:      logger,
	}
	authController := &controllers.AuthController{
		Accounts:     s.Accounts,
		Recovery:     s.Recovery,
		Preferences:  s.Preferences,
		Auth:         s.Auth,
		SecureCookie: opts.Prod,
	}
	// API
	api := router.Group("/api")
	{
		api.Any("/search", searchController.Search)
		api.GET("/whats-new", feedController.GetWhatsNew)
		api.GET("/for-you", jwt, feedController.GetForYou)
		api.GET("/export/:kind", listingsController.Export)
		api.POST("/follow-modal/dismiss", authController.DismissFollowModal)
		for _, spec := range models.Kinds() {
			api.GET("/"+routeSegment(spec), listingsController.List(spec.Kind))
			api.GET("/"+routeSegment(spec)+"/:slug", listingsController.Get(spec.Kind))
		}
	}
	auth := router.Group("/api/auth", limited...)
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/logout", authController.Logout)
		auth.GET("/me", jwt, authController.Me)
		auth.DELETE("/delete-account", jwt, authController.DeleteAccount)
		auth.PUT("/preferences/update", jwt, authController.UpdatePreferences)
	}
	email := router.Group("/api/email", limited...)
	{
		email.POST("/send-otp", authController.SendEmailOTP)
		email.POST("/verify-otp", authController.VerifyEmailOTP)
	}
	password := router.Group("/api/password", limited...)
	{
		password.POST("/send-otp", authController.SendPasswordOTP)
		password.POST("/verify-otp", authController.VerifyPasswordOTP)
		password.POST("/reset-password", authController.ResetPassword)
	}
	// Pages
	pages := router.Group("/", optionalAuth)
	{
		pages.GET("/", pagesController.WhatsNewPage)
		pages.GET("/whats-new", pagesController.WhatsNewPage)
		pages.GET("/for-you", pagesController.ForYouPage)
		pages.GET("/login", pagesController.LoginPage)
		pages.GET("/register", pagesController.RegisterPage)
		pages.GET("/forgot-password", pagesController.ForgotPasswordPage)
		for _, spec := range models.Kinds() {
			pages.GET(spec.Prefix, pagesController.ListingPage(spec.Kind))
			pages.GET(spec.Prefix+"/:slug", pagesController.DetailPage(spec.Kind))
			pages.GET(spec.Prefix+"/:slug/pdf", pagesController.DetailPDF(spec.Kind))
		}
		pages.GET(models.MustKind(models.PAPER).Prefix+"/:slug/download", pagesController.PaperDownload)
	}
	// Route docs
	router.GET("/api/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	// Route metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	// Route healthz
	router.GET("/api/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, &res.Response{
			Success: true,
		})
	})
	// No route
	router.NoRoute(optionalAuth, pagesController.NotFound)
	return router, nil
}
