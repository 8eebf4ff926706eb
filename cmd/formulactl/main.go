package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/config"
	"github.com/KirkDiggler/alchemist-formulas/internal/services"
)

var (
	verbose    bool
	timeout    time.Duration
	actorsFile string

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "formulactl",
	Short: "Inspect and run alchemist formula bookkeeping outside Discord",
	Long: `formulactl runs the same level up reconciliation as the bot.

Actors come from Redis when REDIS_URL is set, otherwise from the YAML
file given with --actors. Compendium packs are read from CATALOG_PATHS
and, with Redis, from packs seeded with "formulactl seed packs".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		logCfg := cfg.Log
		logCfg.Format = "console"
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = config.NewLogger(logCfg)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")
	rootCmd.PersistentFlags().StringVar(&actorsFile, "actors", "", "YAML actor file used when Redis is not configured")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(infuseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openRedis returns nil when REDIS_URL is unset
func openRedis(ctx context.Context) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// newProvider wires the services and returns a cleanup func
func newProvider(ctx context.Context, providerCfg *services.ProviderConfig) (*services.Provider, func(), error) {
	client, err := openRedis(ctx)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	providerCfg.Config = cfg
	providerCfg.Logger = logger
	if client != nil {
		providerCfg.RedisClient = client
		cleanup = func() { _ = client.Close() }
	}

	provider, err := services.NewProvider(providerCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Debug("Compendium sources", zap.Strings("packs", provider.Catalog.Sources()))

	closeRedis := cleanup
	cleanup = func() {
		provider.Close()
		closeRedis()
	}

	if client == nil {
		if actorsFile == "" {
			cleanup()
			return nil, nil, fmt.Errorf("set REDIS_URL or pass --actors")
		}
		if err := seedActors(ctx, provider.Actors, actorsFile, logger); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	return provider, cleanup, nil
}
