package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/mcpizza/mcpizza/internal/api"
	"github.com/mcpizza/mcpizza/internal/catalog"
	"github.com/mcpizza/mcpizza/internal/mcp"
	"github.com/mcpizza/mcpizza/internal/native"
	"github.com/mcpizza/mcpizza/pkg/health"
	"github.com/mcpizza/mcpizza/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("transport", cfg.Transport),
		zap.String("mode", cfg.Mode),
	)

	if cfg.Transport == "stdio" {
		return runStdio(ctx, lg, cfg)
	}

	// Tool backend: in-process order state or an upstream MCP server.
	var (
		backend  mcp.Backend
		sessions api.SessionCloser
	)
	switch cfg.Mode {
	case "proxy":
		backend = mcp.NewProxy(cfg.ProxyEndpoint, cfg.ProxyTimeout, lg)
	default:
		local := mcp.NewLocal(catalog.New(), lg)
		backend = local
		sessions = local
	}

	dispatcher := mcp.NewDispatcher(mcp.NewRegistry(), backend, lg)
	apiServer := api.NewServer(dispatcher, sessions)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	if cfg.Mode == "proxy" {
		healthSvc.AddReadinessCheck("upstream", 5*time.Second, upstreamCheck(cfg.ProxyEndpoint))
	}
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Mux: health endpoints + MCP transport routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/", apiServer.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		// No WriteTimeout: SSE streams stay open indefinitely.
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		Addr:           cfg.Addr,
		Handler:        httpmiddleware.Wrap(
			otelhttp.NewHandler(httpmiddleware.Wrap(mux, httpmiddleware.Labeler()), "mcpizza",
				otelhttp.WithTracerProvider(m.TracerProvider()),
				otelhttp.WithMeterProvider(m.MeterProvider()),
			),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:  cfg.CORS.Origins,
				AllowHeaders:  []string{"Content-Type", "Mcp-Session-Id"},
				ExposeHeaders: []string{"Mcp-Session-Id"},
				MaxAge:        86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// runStdio serves a single client over stdin/stdout. Local mode uses the
// MCP SDK server; proxy mode bridges each tool call to the upstream HTTP
// endpoint.
func runStdio(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	if cfg.Mode == "proxy" {
		backend := mcp.NewProxy(cfg.ProxyEndpoint, cfg.ProxyTimeout, lg)
		dispatcher := mcp.NewDispatcher(mcp.NewRegistry(), backend, lg)
		return mcp.ServeStdio(ctx, os.Stdin, os.Stdout, dispatcher, lg)
	}
	return native.NewServer(catalog.New()).Run(ctx)
}

// upstreamCheck probes the upstream MCP endpoint with a GET request. Any
// HTTP response counts as reachable; only transport failures are errors.
func upstreamCheck(endpoint string) health.CheckFunc {
	client := &http.Client{}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return errors.Wrap(err, "build request")
		}
		resp, err := client.Do(req)
		if err != nil {
			return errors.Wrap(err, "upstream unreachable")
		}
		_ = resp.Body.Close()
		return nil
	}
}
