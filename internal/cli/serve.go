package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/careerbot/internal/config"
	httpadapter "github.com/aretw0/careerbot/pkg/adapters/http"
	"github.com/aretw0/careerbot/pkg/adapters/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP API of rt. gatherer backs GET /metrics when set.
func NewHTTPHandler(rt *Runtime, cfg config.HTTPConfig, logger *slog.Logger, gatherer prometheus.Gatherer, version string) (http.Handler, error) {
	opts := []httpadapter.Option{
		httpadapter.WithLogger(logger),
		httpadapter.WithVersion(version),
		httpadapter.WithReadiness(rt.Ready),
	}
	if len(cfg.CORSOrigins) > 0 {
		opts = append(opts, httpadapter.WithCORSOrigins(cfg.CORSOrigins...))
	}
	if gatherer != nil {
		opts = append(opts, httpadapter.WithMetrics(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return httpadapter.NewHandler(rt.Bot, opts...)
}

// RunServe serves the HTTP API until ctx is done, then drains in-flight turns.
func RunServe(ctx context.Context, handler http.Handler, port int, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	}
}

// RunMCP serves the bot as MCP tools over stdio or SSE.
func RunMCP(ctx context.Context, rt *Runtime, cfg config.MCPConfig, logger *slog.Logger, version string) error {
	srv := mcp.NewServer(rt.Bot, version, mcp.WithLogger(logger))
	switch cfg.Transport {
	case "stdio":
		logger.Info("starting MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		logger.Info("starting MCP server (SSE)", "port", cfg.Port)
		if err := srv.ServeSSE(ctx, cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		logger.Info("MCP server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport %q; supported: stdio, sse", cfg.Transport)
	}
}
