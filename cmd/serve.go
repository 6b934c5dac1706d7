package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kayz/syllabus/internal/cron"
	"github.com/kayz/syllabus/internal/logger"
	"github.com/kayz/syllabus/internal/webui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and web UI",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serveAddr
	if addr == "" {
		addr = appConfig.Server.Addr
	}

	rt, err := newServices(appConfig, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	scheduler := cron.NewScheduler()
	if appConfig.PromptBuild.AuditEnabled {
		schedule := appConfig.PromptBuild.AuditCleanupSchedule
		if schedule == "" {
			schedule = "@daily"
		}
		job, err := scheduler.AddFunc("promptbuild-audit-cleanup", schedule, func(context.Context) error {
			return rt.builder.CleanupOldAuditFiles()
		})
		if err != nil {
			return fmt.Errorf("schedule audit cleanup: %w", err)
		}
		// Apply retention once at startup as well.
		if err := scheduler.RunNow(job.ID); err != nil {
			logger.Warn("[Serve] initial audit cleanup failed: %v", err)
		}
	}
	scheduler.Start()

	server := webui.NewServer(webui.Deps{
		Tutor:   rt.tutor,
		Gate:    rt.gate,
		Builder: rt.builder,
		Store:   rt.store,
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Serve] listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-cmd.Context().Done():
		logger.Info("[Serve] shutting down")
	case serveErr = <-errCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("[Serve] http shutdown: %v", err)
	}
	if err := scheduler.Stop(ctx); err != nil {
		logger.Warn("[Serve] %v", err)
	}

	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	return nil
}
