package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"apistatus/internal/apistatus"
	"apistatus/internal/httpclient"
	"apistatus/internal/httpclient/adapter/inmem"
	"apistatus/internal/httpclient/middleware"
	"apistatus/internal/platform/config"
	"apistatus/internal/platform/logging"
	"apistatus/internal/platform/server"
	"apistatus/internal/platform/telemetry"
	"apistatus/internal/probe"
	"apistatus/internal/toast"
	"apistatus/internal/tui"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	headless := flag.Bool("headless", false, "log probe results and print toasts instead of running the TUI")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("apistatus", version)
		return
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "apistatus:", err)
		os.Exit(1)
	}

	// Logging. The TUI owns the terminal, so it only logs to a file.
	logOut := io.Writer(os.Stderr)
	if !*headless {
		logOut = io.Discard
	}
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintln(os.Stderr, "apistatus: opening log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metrics
	var metrics *telemetry.ClientMetrics
	if cfg.MetricsAddr != "" {
		shutdown, err := telemetry.Setup(ctx, "apistatus")
		if err != nil {
			slog.Error("telemetry setup failed", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("telemetry shutdown error", "error", err)
			}
		}()

		metrics, err = telemetry.NewClientMetrics()
		if err != nil {
			slog.Error("metrics initialization failed", "error", err)
			os.Exit(1)
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", telemetry.MetricsHandler())
		srv := server.New("metrics", cfg.MetricsAddr, mux, logger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				slog.Error("metrics server error", "error", err)
			}
		}()
	}

	// Rate limiter
	rl := inmem.NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst, time.Now)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.Cleanup()
			}
		}
	}()

	// Client
	chain := []middleware.Middleware{
		middleware.Metrics(metrics),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Recovery,
	}
	if cfg.MaxBodyBytes > 0 {
		chain = append(chain, middleware.MaxBodySize(cfg.MaxBodyBytes))
	}
	chain = append(chain,
		middleware.RateLimit(rl, metrics),
		middleware.Auth(cfg.APIKey, logger),
	)

	client, err := httpclient.New(cfg.APIURL, httpclient.Options{
		Timeout:   cfg.APITimeout.Duration,
		Transport: middleware.Chain(http.DefaultTransport, chain...),
		Metrics:   metrics,
	})
	if err != nil {
		slog.Error("client initialization failed", "error", err)
		os.Exit(1)
	}

	notifierCfg := apistatus.Config{
		Rules: apistatus.Rules{
			Statuses: cfg.Intercept.Statuses,
			Ranges:   cfg.Intercept.Ranges,
			Codes:    cfg.Intercept.Codes,
		},
		Toast: toast.Options{
			Dismissible: cfg.Toast.Dismissible,
			Timeout:     cfg.Toast.Timeout.Duration,
		},
		APIURL: client.BaseURL(),
	}
	p := probe.New(client, cfg.HealthPath, logger)

	slog.Info("apistatus starting",
		"version", version,
		"api_url", client.BaseURL(),
		"health_path", cfg.HealthPath,
		"poll_interval", cfg.PollInterval.String(),
		"headless", *headless,
	)

	if *headless {
		notifier := apistatus.NewNotifier(notifierCfg, toast.NewWriterToaster(os.Stdout, 72), logger, metrics)
		notifier.Install(client)
		p.Run(ctx, cfg.PollInterval.Duration, func(r probe.Result) {
			if r.OK() {
				slog.Info("api up", "status", r.Status, "latency_ms", r.Latency.Milliseconds())
				return
			}
			slog.Warn("api down", "status", r.Status, "code", r.Code(), "error", r.Err)
		})
		return
	}

	program := tea.NewProgram(
		tui.NewAppModel(p, client.BaseURL(), cfg.PollInterval.Duration),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	notifier := apistatus.NewNotifier(notifierCfg, tui.NewToaster(program.Send), logger, metrics)
	notifier.Install(client)

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		slog.Error("tui error", "error", err)
		fmt.Fprintln(os.Stderr, "apistatus:", err)
		os.Exit(1)
	}
}
