package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/httpapi"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve(ctx context.Context) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info("starting the jobmatch api", zap.String("version", version))

	svc, err := newServices(ctx, config, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	extractor, err := newExtractor(ctx, config.AI, log)
	if err != nil {
		log.Warn("skill extraction disabled", zap.Error(err))
	}

	api := httpapi.New(httpapi.Config{
		CORSOrigins:  config.Server.CORSOrigins,
		CookieSecure: config.Server.CookieSecure,
	}, httpapi.Deps{
		Jobs:      svc.jobs,
		Users:     svc.users,
		Sessions:  svc.sessions,
		Resumes:   svc.resumes,
		Extractor: extractor,
		Logger:    log,
	})

	server := &http.Server{
		Addr:         config.Server.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info("shutting down", zap.Error(ctx.Err()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("server exited")
	return nil
}
