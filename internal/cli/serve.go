package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/photomark/internal/http/handlers"
	"github.com/phambaophuc/photomark/internal/http/routes"
	"github.com/phambaophuc/photomark/internal/services/metadata"
	"github.com/phambaophuc/photomark/internal/services/processor"
	"github.com/phambaophuc/photomark/internal/services/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the watermark HTTP service",
		Long: `Serve the watermark pipeline over HTTP, one uploaded photo per request.

Endpoints:
  GET  /api/v1/health
  POST /api/v1/watermark/text    image, text, font_size, color, opacity, position
  POST /api/v1/watermark/image   image, watermark, scale, opacity
  POST /api/v1/watermark/date    image, font_size, color, opacity, position

Results are cached in Redis when REDIS_ADDR is set and uploaded to Supabase
Storage when SUPABASE_URL and SUPABASE_BUCKET are set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}
			return a.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8080", "listen port")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	if !a.verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.NewStorageService(a.cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	imageHandler := handlers.NewImageHandler(
		processor.NewImageProcessor(a.logger),
		processor.NewBuilder(a.fonts(), a.logger),
		metadata.NewExtractor(a.logger),
		store,
		a.logger,
		a.cfg,
	)
	router := routes.NewRouter(imageHandler, a.logger)

	server := &http.Server{
		Addr:         ":" + a.cfg.Server.Port,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		Handler:      router.SetupRoutes(),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	a.logger.Info("Server exited")
	return nil
}
