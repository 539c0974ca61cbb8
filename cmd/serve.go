package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"sheet-sync/core/loader"
	"sheet-sync/core/logger"
	"sheet-sync/core/middleware/auth"
	"sheet-sync/core/middleware/rayid"
	"sheet-sync/feature/status"
	"sheet-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd runs the scheduler and the status API until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog on a schedule and serve run status",
	Long:  `Starts the cron scheduler and the HTTP status API. Runs never overlap.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.log

		// 1. Scheduler
		sched := sync.NewScheduler(a.service, a.cfg.Schedule.Cron, a.cfg.Schedule.RunOnStart, logg)
		if err := sched.Start(); err != nil {
			return err
		}

		// 2. HTTP app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(status.NewFeature(a.service, logg))

		// RayID must be first to trace everything
		app.Use(rayid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})
		app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/health"}}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("address", a.cfg.Server.Address()))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 3. Graceful shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		_ = app.Shutdown()

		// Wait for the in-flight run, scheduled or triggered over HTTP, before the pool closes.
		<-sched.Stop().Done()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
