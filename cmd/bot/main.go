package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/alchemist-formulas/internal/config"
	"github.com/KirkDiggler/alchemist-formulas/internal/discord"
	"github.com/KirkDiggler/alchemist-formulas/internal/metrics"
	"github.com/KirkDiggler/alchemist-formulas/internal/notify"
	"github.com/KirkDiggler/alchemist-formulas/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.RequireDiscord(); err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Debug("No .env file found")
	}
	logger.Info("Starting formula bot",
		zap.String("app_id", cfg.Discord.AppID),
		zap.String("guild_id", cfg.Discord.GuildID),
		zap.String("grant_mode", cfg.Formulas.GrantMode),
		zap.String("removal_mode", cfg.Formulas.RemovalMode),
		zap.String("prompt_mode", cfg.Formulas.PromptMode))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := connectRedis(ctx, cfg.Redis.URL, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("Failed to close Redis connection", zap.Error(err))
			}
		}()
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	prompter := discord.NewPrompter(&discord.PrompterConfig{
		Session:          dg,
		DefaultChannelID: cfg.Discord.ChannelID,
		Timeout:          cfg.Formulas.PromptTimeout,
		Logger:           logger,
	})

	var notifiers []notify.Notifier
	if cfg.Discord.ChannelID != "" {
		notifiers = append(notifiers, notify.NewChannelNotifier(dg, cfg.Discord.ChannelID))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	providerConfig := &services.ProviderConfig{
		Config:     cfg,
		Registerer: reg,
		Confirmers: prompter.ConfirmerFor,
		Notifiers:  notifiers,
		Logger:     logger,
	}
	// A nil interface keeps the provider in memory
	if redisClient != nil {
		providerConfig.RedisClient = redisClient
	}

	provider, err := services.NewProvider(providerConfig)
	if err != nil {
		return err
	}
	logger.Info("Compendium sources", zap.Strings("packs", provider.Catalog.Sources()))

	// Treat the current level as processed so startup never replays old level ups
	synced, err := provider.FormulaService.SyncPreviousLevels(ctx, nil)
	if err != nil {
		logger.Warn("Failed to sync previous levels", zap.Error(err))
	} else {
		logger.Info("Synced previous levels", zap.Int("actors", synced))
	}

	handler := discord.NewHandler(&discord.HandlerConfig{
		Session:  dg,
		Actors:   provider.Actors,
		Formulas: provider.FormulaService,
		EventBus: provider.EventBus,
		Prompter: prompter,
		GMRoleID: cfg.Discord.GMRoleID,
		Logger:   logger,
	})
	dg.AddHandler(handler.HandleInteraction)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	defer func() {
		if err := dg.Close(); err != nil {
			logger.Warn("Failed to close Discord connection", zap.Error(err))
		}
	}()

	// Use empty guild ID for global commands
	if _, err := dg.ApplicationCommandBulkOverwrite(cfg.Discord.AppID, cfg.Discord.GuildID, discord.Commands()); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	if cfg.Discord.GuildID == "" {
		logger.Info("Registered global commands (may take up to 1 hour to propagate)")
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.Metrics.Addr, metrics.NewRouter(reg), logger)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	logger.Info("Bot is now running. Press CTRL-C to exit.")
	err = g.Wait()

	logger.Info("Shutting down, cancelling open prompts", zap.Int("open_prompts", prompter.Pending()))
	provider.Close()
	handler.Close()
	return err
}

// connectRedis returns nil when no URL is configured or the server is unreachable
func connectRedis(ctx context.Context, url string, logger *zap.Logger) (*redis.Client, error) {
	if url == "" {
		logger.Info("No REDIS_URL found, using in-memory repositories")
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		logger.Warn("Failed to connect to Redis, falling back to in-memory repositories", zap.Error(err))
		return nil, nil
	}

	logger.Info("Using Redis for persistence", zap.String("addr", opts.Addr))
	return client, nil
}
