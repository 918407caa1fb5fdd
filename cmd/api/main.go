package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "admin-panel/internal/common/api"
	"admin-panel/internal/config"
	"admin-panel/internal/database"
	"admin-panel/internal/features/access"
	"admin-panel/internal/features/audit"
	"admin-panel/internal/features/auth"
	"admin-panel/internal/features/category"
	"admin-panel/internal/features/module"
	"admin-panel/internal/features/permission"
	"admin-panel/internal/features/profile"
	"admin-panel/internal/features/role"
	"admin-panel/internal/features/system"
	"admin-panel/internal/features/user"
	"admin-panel/internal/jobs"
	"admin-panel/internal/logger"
	"admin-panel/internal/middleware"
	"admin-panel/internal/observability"
	"admin-panel/internal/ratelimit"
	"admin-panel/pkg/utils"

	_ "admin-panel/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler(logger),
		ProxyHeader:             cfg.ProxyHeader,
		EnableTrustedProxyCheck: len(cfg.TrustedProxies) > 0,
		TrustedProxies:          cfg.TrustedProxies,
	})

	app.Use(middleware.CORSMiddleware(cfg))
	app.Use(metrics.Middleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, logger *zap.Logger) {
	for _, route := range routes {
		logger.Debug("Setting up route", zap.String("api", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
	logger.Info("All routes registered", zap.Int("count", len(routes)))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				logger.Info("Server listening", zap.String("addr", port))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures the unique and lookup indexes exist
func InitializeIndexes(lc fx.Lifecycle, db *database.MongodbDB, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := db.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func NewTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
}

func NewResolver(users user.UserRepository, roles role.RoleRepository, permissions permission.PermissionRepository) access.Resolver {
	return access.NewGraphResolver(users, roles, permissions)
}

func NewGuard(permissions permission.PermissionRepository, users user.UserRepository) *access.Guard {
	return access.NewGuard(access.Counters{
		PermissionsByModule: permissions.CountByModule,
		UsersByRole:         users.CountByRole,
	})
}

// @title           Admin Panel API
// @version         1.0
// @description     Role-based access control admin backend.

// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			observability.NewMetrics,
			ratelimit.NewLoginLimiter,
			NewTokenManager,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Repository
			audit.NewAuditRepository,
			module.NewModuleRepository,
			permission.NewPermissionRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
			category.NewCategoryRepository,

			// Authorization core
			NewResolver,
			NewGuard,
			middleware.NewGatekeeper,

			audit.NewAuditService,
			auth.NewAuthService,
			module.NewModuleService,
			permission.NewPermissionService,
			role.NewRoleService,
			user.NewUserService,
			profile.NewProfileService,
			category.NewCategoryService,

			// Interface Adapters to satisfy Fx
			func(r user.UserRepository) audit.UserFinder { return r },
			func(r user.UserRepository) auth.UserStore { return r },
			func(r user.UserRepository) profile.UserStore { return r },
			func(r module.ModuleRepository) permission.ModuleLookup { return r },
			func(r role.RoleRepository) user.RoleLookup { return r },
			func(r role.RoleRepository) auth.RoleLookup { return r },
			func(r role.RoleRepository) profile.RoleLookup { return r },
			func(r role.RoleRepository) jobs.RoleLister { return r },
			func(r permission.PermissionRepository) jobs.PermissionFinder { return r },

			jobs.NewIntegrityScanner,

			// Initialize Controller
			auth.NewAuthController,
			module.NewModuleController,
			permission.NewPermissionController,
			role.NewRoleController,
			user.NewUserController,
			profile.NewProfileController,
			category.NewCategoryController,
			audit.NewAuditController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(module.NewModuleApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(role.NewRoleApi),
			AsRoute(user.NewUserApi),
			AsRoute(profile.NewProfileApi),
			AsRoute(category.NewCategoryApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewMetricsApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			jobs.RegisterIntegrityScan,
		),
	)

	app.Run()
}
