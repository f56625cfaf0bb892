package commands

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"north_staffing_backend/internal/middleware"
	"north_staffing_backend/internal/router"
	"north_staffing_backend/internal/services"
	"north_staffing_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	noReminders bool
	noMigrate   bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Start the HTTP API server and the periodic shift reminder sweep. Stops gracefully on SIGINT or SIGTERM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openStore(cfg, !serveFlags.noMigrate)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
			if _, err := ensureAdmin(ctx, store, "", cfg.AdminEmail, cfg.AdminPassword); err != nil {
				return err
			}
		}

		tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			return err
		}
		reminders := services.NewReminderService(store, newNotifier(cfg), cfg.ReminderWindow)
		limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
		go limiter.RunCleanup(ctx)
		enquiryLimiter := middleware.NewRateLimiter(cfg.EnquiryRateLimit, time.Minute)
		go enquiryLimiter.RunCleanup(ctx)

		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		engine := gin.New()
		engine.Use(gin.Recovery())
		engine.Use(middleware.RequestID())
		engine.Use(utils.GinLogger())

		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
		corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
		corsConfig.AllowCredentials = true
		engine.Use(cors.New(corsConfig))

		router.Setup(engine, router.Deps{
			Store:          store,
			Tokens:         tokens,
			Reminders:      reminders,
			AuthLimiter:    limiter,
			EnquiryLimiter: enquiryLimiter,
		})

		if !serveFlags.noReminders {
			go reminders.RunReminderLoop(ctx, cfg.ReminderInterval)
		}

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "store": cfg.Database.Driver, "version": version})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				utils.LogError(err, "Failed to start server")
				return err
			}
		case <-ctx.Done():
		}

		utils.LogInfo("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.LogError(err, "Graceful shutdown failed")
			return err
		}
		utils.LogInfo("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveFlags.noReminders, "no-reminders", false, "do not run the periodic reminder sweep")
	serveCmd.Flags().BoolVar(&serveFlags.noMigrate, "no-migrate", false, "skip schema migration on startup")
}
