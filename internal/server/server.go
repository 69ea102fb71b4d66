package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"drycleaning/internal/config"
	"drycleaning/internal/domain/catalog"
	"drycleaning/internal/domain/client"
	"drycleaning/internal/domain/notification"
	"drycleaning/internal/domain/operator"
	"drycleaning/internal/domain/order"
	"drycleaning/internal/domain/photo"
	"drycleaning/internal/domain/pricing"
	"drycleaning/internal/domain/receipt"
	"drycleaning/internal/domain/recommendation"
	"drycleaning/internal/domain/wizard"
	"drycleaning/internal/middleware"
	jwtsvc "drycleaning/internal/pkg/jwt"
	"drycleaning/internal/pkg/response"
)

// App is the assembled service: the router plus the parts cmd/api runs in the background.
type App struct {
	Router        *gin.Engine
	JWT           *jwtsvc.Service
	Operators     *operator.Service
	Clients       *client.Service
	Catalog       *catalog.Service
	Orders        *order.Service
	Notifications *notification.Service
	Cleanup       *notification.CleanupService
	Hub           *notification.Hub
	Sessions      *wizard.Store
}

// Models lists every table the service owns, in migration order.
func Models() []any {
	models := []any{&operator.Operator{}}
	models = append(models, client.Models()...)
	models = append(models, catalog.Models()...)
	models = append(models, order.Models()...)
	models = append(models, photo.Models()...)
	models = append(models, notification.Models()...)
	return models
}

// OrderRules applies the branch and receipt settings to the default order rules.
func OrderRules(cfg *config.Config) order.Rules {
	rules := order.DefaultRules()
	rules.BranchCode = cfg.Branch.Code
	rules.ReceiptPrefix = cfg.Receipt.Prefix
	return rules
}

// NewStorage picks S3 when a bucket is configured and keeps photos in memory otherwise.
func NewStorage(ctx context.Context, cfg config.S3Config) (photo.Storage, error) {
	if !cfg.Enabled() {
		return photo.NewMemoryStorage(), nil
	}
	return photo.NewS3Storage(ctx, photo.S3Config{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
	})
}

func New(cfg *config.Config, db *gorm.DB, storage photo.Storage, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	rules := OrderRules(cfg)

	calc := pricing.NewCalculator(pricing.DefaultConfig())
	catalogs := catalog.NewService(catalog.NewRepository(db), calc)
	clients := client.NewService(db, client.DefaultLoyaltyRules(), log.Named("client"))
	operators := operator.NewService(db, jwt, log.Named("operator"))
	engine := recommendation.NewEngine(recommendation.DefaultConfig(), catalogs, catalogs)
	orders := order.NewService(db, catalogs, clients, calc, rules, recommendation.DefaultConfig(), log.Named("order"))

	hub := notification.NewHub(log.Named("board"))
	notifRepo := notification.NewRepository(db)
	notifications := notification.NewService(notifRepo, hub, clients, log.Named("notification"))
	orders.SetNotifier(notifications)

	renderer, err := receipt.NewRenderer(cfg.Receipt.FontPath)
	if err != nil {
		return nil, err
	}
	branch := receipt.Branch{
		Code:     cfg.Branch.Code,
		Name:     cfg.Branch.Name,
		Address:  cfg.Branch.Address,
		Phone:    cfg.Branch.Phone,
		Location: rules.Location,
	}
	receipts := receipt.NewService(orders, clients, renderer, branch, cfg.Receipt.Locale, log.Named("receipt"))
	photos := photo.NewService(db, storage, rules, log.Named("photo"))

	sessions := wizard.NewStore(cfg.WizardSessionTTL)
	driver := wizard.NewDriver(wizard.Dependencies{
		Orders:   orders,
		Catalog:  catalogs,
		Advisor:  engine,
		Clients:  clients,
		Notifier: notifications,
		Board:    notifications,
	}, sessions, log.Named("wizard"))

	if gin.Mode() != gin.TestMode && cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/ws"})))

	r.GET("/health", func(c *gin.Context) {
		if err := ping(c.Request.Context(), db); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", err.Error())
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "screens": hub.Connected()})
	})

	operatorHandler := operator.NewHandler(operators)
	notificationHandler := notification.NewHandler(notifications, hub, jwt, log.Named("board"))
	catalogHandler := catalog.NewHandler(catalogs)

	v1 := r.Group("/api/v1")
	{
		operatorHandler.RegisterPublicRoutes(v1)
		notificationHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(jwt))
		{
			operatorHandler.RegisterProtectedRoutes(protected)
			client.NewHandler(clients).RegisterRoutes(protected)
			catalogHandler.RegisterRoutes(protected)
			recommendation.NewHandler(engine).RegisterRoutes(protected)
			order.NewHandler(orders).RegisterRoutes(protected)
			receipt.NewHandler(receipts).RegisterRoutes(protected)
			photo.NewHandler(photos).RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
			wizard.NewHandler(driver).RegisterRoutes(protected)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(jwt), middleware.AdminOnly())
		{
			operatorHandler.RegisterAdminRoutes(admin)
			catalogHandler.RegisterAdminRoutes(admin)
		}
	}

	return &App{
		Router:        r,
		JWT:           jwt,
		Operators:     operators,
		Clients:       clients,
		Catalog:       catalogs,
		Orders:        orders,
		Notifications: notifications,
		Cleanup:       notification.NewCleanupService(notifRepo, log.Named("cleanup")),
		Hub:           hub,
		Sessions:      sessions,
	}, nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
