package bootstrap

import (
	"context"

	"appdriver/internal/console"
	"appdriver/internal/ports"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func runConsole(lc fx.Lifecycle, consoleInterface *console.Interface, manager ports.AppManager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting appdriver console...")

			logger.Info("Launching application...")

			if err := manager.Launch(ctx); err != nil {
				logger.Error("Failed to launch application", zap.Error(err))

				return err
			}

			logger.Info("Application launched successfully")

			go func() {
				if err := consoleInterface.Start(); err != nil {
					logger.Error("Console interface error", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down appdriver...")

			if err := consoleInterface.Stop(); err != nil {
				logger.Error("Failed to stop console", zap.Error(err))
			}

			if err := manager.Close(ctx); err != nil {
				logger.Error("Failed to close application", zap.Error(err))
			}

			return nil
		},
	})
}
