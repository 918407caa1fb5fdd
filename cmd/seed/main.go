package main

import (
	"context"
	"time"

	"admin-panel/internal/config"
	"admin-panel/internal/database"
	"admin-panel/internal/features/module"
	"admin-panel/internal/features/permission"
	"admin-panel/internal/features/role"
	"admin-panel/internal/features/user"
	"admin-panel/internal/logger"
	"admin-panel/internal/seed"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed runs the catalog seeding once and shuts the app down.
func Seed(
	lc fx.Lifecycle,
	db *database.MongodbDB,
	moduleRepo module.ModuleRepository,
	permissionRepo permission.PermissionRepository,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	cfg *config.Config,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				exitCode := 0
				defer func() {
					if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				defer cancel()

				logger.Info("Starting database seeding")
				if err := db.EnsureIndexes(ctx); err != nil {
					logger.Error("Failed to ensure indexes", zap.Error(err))
					exitCode = 1
					return
				}

				s := &seed.Seeder{
					Modules:     moduleRepo,
					Permissions: permissionRepo,
					Roles:       roleRepo,
					Users:       userRepo,
					Config:      cfg,
					Logger:      logger,
				}
				res, err := s.Run(ctx)
				if err != nil {
					logger.Error("Seeding failed", zap.Error(err))
					exitCode = 1
					return
				}
				logger.Info("Seeding complete",
					zap.Int("modules", res.Modules),
					zap.Int("permissions", res.Permissions),
					zap.Int("roles", res.Roles),
					zap.Bool("user", res.User),
				)
			}()
			return nil
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			module.NewModuleRepository,
			permission.NewPermissionRepository,
			role.NewRoleRepository,
			user.NewUserRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	).Run()
}
