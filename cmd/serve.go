package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quantumtrio/kptsignal/internal/dataset"
	"github.com/quantumtrio/kptsignal/internal/server"
	signalpkg "github.com/quantumtrio/kptsignal/internal/signal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the analytics snapshot and serve the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		src := dataset.Load(ctx, cfg)
		snap := signalpkg.BuildSnapshot(src.Restaurants, src.Records, cfg.Seed, src.Origin)

		srv := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: server.New(snap).Router(),
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("api listening", zap.String("addr", cfg.ListenAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return eris.Wrap(err, "serve")
		case <-ctx.Done():
		}

		zap.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "shutdown")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen-addr", ":5000", "Address to serve the API on")
	viper.BindPFlag("listen_addr", serveCmd.Flags().Lookup("listen-addr"))
	rootCmd.AddCommand(serveCmd)

	// running the bare binary serves, same as the explicit subcommand
	rootCmd.RunE = serveCmd.RunE
}
