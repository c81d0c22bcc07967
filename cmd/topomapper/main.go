package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"topomap/internal/app"
	"topomap/internal/config"
	"topomap/internal/discovery"
	"topomap/internal/domain"
	"topomap/internal/fetch"
	"topomap/internal/logging"
	"topomap/internal/outputter"
)

func main() {
	var (
		debug      bool
		watch      bool
		configPath string
		source     string
		endpoint   string
		interval   int
		output     string
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "topomapper",
		Short: "Topomapper - risk-annotated cloud topology",
		Long:  "Classifies discovered cloud resources into trust zones, aggregates traffic flows, and surfaces internet exposure paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, source, endpoint, interval, output)
			if err != nil {
				return err
			}
			return runTopomapper(ctx, cfg, debug, watch)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging (verbose output)")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "Keep refreshing on the configured interval until interrupted")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&source, "source", "", "Raw graph source: backend, aws, or demo")
	rootCmd.Flags().StringVar(&endpoint, "endpoint", "", "Discovery backend graph endpoint")
	rootCmd.Flags().IntVar(&interval, "interval", 0, "Refresh interval in seconds (with --watch)")
	rootCmd.Flags().StringVar(&output, "output", "", "Write the topology report JSON to this path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration: defaults, file, env, then flags.
func loadConfig(configPath, source, endpoint string, interval int, output string) (*config.Config, error) {
	// Load .env file if present (optional — production should use real env vars)
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if source != "" {
		cfg.Source = source
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if interval > 0 {
		cfg.IntervalSeconds = interval
	}
	if output != "" {
		cfg.Output = output
	}
	return cfg, nil
}

func runTopomapper(ctx context.Context, cfg *config.Config, debug, watch bool) error {
	logging.SetLogLevel(logging.LogLevelWarn)
	if debug {
		logging.SetLogLevel(logging.LogLevelDebug)
		fmt.Println("\n🔍 Debug logging: ENABLED")
	}

	graphSource, err := buildSource(ctx, cfg)
	if err != nil {
		return err
	}
	refresher := app.NewRefresher(graphSource, cfg.Source, cfg.Interval())

	if watch {
		fmt.Printf("👀 Watching %s every %s (Ctrl-C to stop)\n", cfg.Source, cfg.Interval())
		go displayLoop(ctx, refresher, cfg.Output)
		err := refresher.Watch(ctx)
		if err == context.Canceled {
			return nil
		}
		return err
	}

	topo, err := refresher.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("error refreshing topology: %w", err)
	}
	outputter.DisplayTopology(topo)

	if cfg.Output != "" {
		return outputter.WriteReport(topo, cfg.Output)
	}
	return nil
}

// buildSource wires the configured raw-graph source.
func buildSource(ctx context.Context, cfg *config.Config) (app.GraphSource, error) {
	switch cfg.Source {
	case config.SourceBackend:
		return fetch.NewClient(cfg.Endpoint), nil
	case config.SourceAWS:
		clients, err := discovery.NewClients(ctx)
		if err != nil {
			return nil, fmt.Errorf("error initializing AWS discovery: %w", err)
		}
		fmt.Printf("🔑 AWS Account: %s\n", clients.AccountID)
		return app.GraphSourceFunc(clients.Collect), nil
	case config.SourceDemo:
		return app.GraphSourceFunc(func(context.Context) (domain.RawGraph, error) {
			return fetch.DemoGraph(), nil
		}), nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}

// displayLoop re-renders whenever watch mode publishes a fresh topology.
func displayLoop(ctx context.Context, refresher *app.Refresher, output string) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastShown *domain.Topology
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		topo := refresher.Current()
		if topo == nil || topo == lastShown {
			continue
		}
		outputter.DisplayTopology(topo)
		if output != "" {
			if err := outputter.WriteReport(topo, output); err != nil {
				logging.LogError("failed to write report", err)
			}
		}
		lastShown = topo
	}
}
