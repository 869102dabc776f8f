// mcp-proxy bridges an MCP client speaking JSON-RPC over stdio to an MCPizza
// server reachable over HTTP. Tool calls are forwarded to the remote /mcp
// endpoint; initialize and tools/list are answered locally so the bridge
// works even when the server is briefly unreachable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mcpizza/mcpizza/internal/mcp"
)

func main() {
	var (
		endpoint = flag.String("endpoint", "http://localhost:8080/mcp", "MCPizza HTTP endpoint")
		timeout  = flag.Duration("timeout", 30*time.Second, "per-request timeout")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if err := run(*endpoint, *timeout, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "mcp-proxy:", err)
		os.Exit(1)
	}
}

func run(endpoint string, timeout time.Duration, verbose bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Stdout carries the protocol, so logs go to stderr.
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	lg := zap.New(core)
	defer func() { _ = lg.Sync() }()

	backend := mcp.NewProxy(endpoint, timeout, lg)
	dispatcher := mcp.NewDispatcher(mcp.NewRegistry(), backend, lg)

	lg.Info("Proxy started", zap.String("endpoint", endpoint))
	return mcp.ServeStdio(ctx, os.Stdin, os.Stdout, dispatcher, lg)
}
