package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (MCPIZZA_ prefix), flags, or YAML config files.
type Config struct {
	Addr          string        `default:"0.0.0.0:8080" usage:"HTTP server listen address"`
	Transport     string        `default:"http" usage:"Serving transport: http or stdio"`
	Mode          string        `default:"local" usage:"Tool backend mode: local or proxy"`
	ProxyEndpoint string        `default:"" usage:"Upstream MCP HTTP endpoint for proxy mode"`
	ProxyTimeout  time.Duration `default:"30s" usage:"Upstream request timeout in proxy mode"`
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	Graceful      GracefulConfig
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins []string `default:"*" usage:"Allowed CORS origins"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "MCPIZZA",
		SkipFlags: true,
		Files:     []string{"config.yaml", "/etc/mcpizza/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	switch cfg.Transport {
	case "http", "stdio":
	default:
		return nil, errors.Errorf("unknown transport %q: expected http or stdio", cfg.Transport)
	}

	switch cfg.Mode {
	case "local":
	case "proxy":
		if cfg.ProxyEndpoint == "" {
			return nil, errors.New("proxy mode requires MCPIZZA_PROXY_ENDPOINT")
		}
	default:
		return nil, errors.Errorf("unknown mode %q: expected local or proxy", cfg.Mode)
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like PORT to the application's
// MCPIZZA_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
