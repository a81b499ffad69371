package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"pizzashop/internal/app"
	"pizzashop/internal/database"
	"pizzashop/internal/handlers"
	"pizzashop/pkg/metrics"
	"pizzashop/pkg/rabbitmq"

	"github.com/spf13/cobra"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the status update consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.Database, cfg.Log.Level, log)
			if err != nil {
				return err
			}
			defer database.Close(db)
			if err := database.Migrate(db); err != nil {
				return err
			}

			deps := app.Deps{
				DB:        db,
				Logger:    log,
				Metrics:   metrics.New("pizzashop"),
				AccessLog: cfg.App.AccessLog,
			}

			var mq *rabbitmq.Client
			if cfg.RabbitMQ.URL != "" {
				mq, err = rabbitmq.NewClient(rabbitmq.Config{
					URL:         cfg.RabbitMQ.URL,
					Exchange:    cfg.RabbitMQ.Exchange,
					StatusQueue: cfg.RabbitMQ.StatusQueue,
				}, log)
				if err != nil {
					return err
				}
				defer mq.Close()
				deps.Publisher = mq
			} else {
				log.Warn("rabbitmq.url not set, order events are not published")
			}

			a := app.NewApp(deps)

			if mq != nil {
				consumer := handlers.NewStatusConsumer(a.Orders, log)
				if err := mq.ConsumeStatusUpdates(consumer.Handle); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("starting server", "port", cfg.App.Port)
				errCh <- a.Fiber.Listen(cfg.App.Port)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed: %w", err)
			case <-ctx.Done():
			}

			log.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
			defer cancel()
			if err := a.Fiber.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error("error during shutdown", "error", err)
			}
			log.Info("server gracefully stopped")
			return nil
		},
	}
}
