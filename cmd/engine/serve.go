package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"internhunt-engine/internal/httpapi"
	"internhunt-engine/internal/ingest"
	"internhunt-engine/internal/scheduler"
	"internhunt-engine/internal/secrets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus over HTTP and scrape on the configured interval",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return serve(ctx, a)
	},
}

func serve(ctx context.Context, a *app) error {
	handler := httpapi.NewHandler(httpapi.Deps{
		Corpus:      a.db,
		Runner:      a.orch,
		Hub:         a.hub,
		Log:         a.log.Named("http"),
		Metrics:     promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}),
		Config:      a.cfg,
		ConfigPath:  a.cfgPath,
		SetToken:    secrets.SetGitHubToken,
		DeleteToken: secrets.DeleteGitHubToken,
	})

	srv := &http.Server{
		Addr:              a.cfg.App.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if iv := a.cfg.Interval(); iv > 0 {
		go scheduler.Every(ctx, a.log.Named("scheduler"), iv, "ingest", func(ctx context.Context) error {
			_, err := a.orch.Run(ctx)
			if errors.Is(err, ingest.ErrRunInProgress) {
				return nil
			}
			return err
		})
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Infow("engine listening", "addr", "http://"+a.cfg.App.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Infow("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
