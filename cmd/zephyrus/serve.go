package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ophelios-studio/zephyrus/bootstrap"
	"github.com/ophelios-studio/zephyrus/internal/demo"
	"github.com/ophelios-studio/zephyrus/mux"
	"github.com/ophelios-studio/zephyrus/muxhandlers"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the sample controllers",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.Router.Watch {
		w, err := bootstrap.NewWatcher(cfg.Router.ControllersDir, func(ctx context.Context) error {
			_, err := a.loader.Rebuild(ctx)
			return err
		}, bootstrap.WithWatcherLogger(logger))
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			logger.Warn("controllers watcher not started", zap.Error(err))
		}
		defer w.Stop()
	}

	router := mux.NewRouter(a.repo,
		mux.WithAuthorizer(demo.Authorizer()),
		mux.WithLogger(logger))
	router.Use(
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{Logger: logger}),
		muxhandlers.RecoveryMiddleware(logger),
		muxhandlers.AccessLogMiddleware(logger),
	)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.Int("routes", a.repo.Len()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
