package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	alcherr "github.com/KirkDiggler/alchemist-formulas/internal/errors"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
)

const (
	defaultSystemPack    = "pf2e.equipment-srd"
	defaultPromptTimeout = 2 * time.Minute
)

// Config holds all configuration for the application
type Config struct {
	Discord  DiscordConfig
	Redis    RedisConfig
	Catalog  CatalogConfig
	Formulas FormulaConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `validate:"required"`
	AppID   string `validate:"required"`
	GuildID string // Optional: for guild-specific commands

	// ChannelID receives announcements. Empty disables chat announcements.
	ChannelID string

	// GMRoleID marks guild members that act as GM
	GMRoleID string
}

// RedisConfig holds Redis-specific configuration. An empty URL selects in-memory storage.
type RedisConfig struct {
	URL string
}

// CatalogConfig lists the compendium packs to load and search
type CatalogConfig struct {
	Paths      []string `validate:"dive,required"`
	SystemPack string   `validate:"required"`
	UserPacks  []string `validate:"dive,required"`
}

// FormulaConfig holds the formula bookkeeping settings
type FormulaConfig struct {
	GrantMode     string        `validate:"oneof=disabled auto ask_each ask_all"`
	RemovalMode   string        `validate:"oneof=disabled add_lower remove_lower"`
	PromptMode    string        `validate:"oneof=auto_lower ask_all_lower ask_each_lower"`
	Permission    string        `validate:"oneof=gm_only actor_owner"`
	Announce      bool
	PromptTimeout time.Duration `validate:"gt=0"`

	// PowerfulAlchemy raises infused item DCs to the class DC
	PowerfulAlchemy bool
}

// MetricsConfig configures the metrics listener. Empty Addr disables it.
type MetricsConfig struct {
	Addr string
}

// LogConfig selects the zap logger
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json console"`
}

// Load loads configuration from environment variables.
// Discord settings are only checked by RequireDiscord.
func Load() (*Config, error) {
	defaults := reconciler.DefaultPolicy()

	cfg := &Config{
		Discord: DiscordConfig{
			Token:     os.Getenv("DISCORD_TOKEN"),
			AppID:     os.Getenv("DISCORD_APP_ID"),
			GuildID:   os.Getenv("DISCORD_GUILD_ID"),
			ChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
			GMRoleID:  os.Getenv("DISCORD_GM_ROLE_ID"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Catalog: CatalogConfig{
			Paths:      getEnvAsList("CATALOG_PATHS"),
			SystemPack: getEnvOrDefault("CATALOG_SYSTEM_PACK", defaultSystemPack),
			UserPacks:  getEnvAsList("CATALOG_USER_PACKS"),
		},
		Formulas: FormulaConfig{
			GrantMode:     getEnvOrDefault("FORMULA_GRANT_MODE", string(defaults.Grant)),
			RemovalMode:   getEnvOrDefault("FORMULA_REMOVAL_MODE", string(defaults.Removal)),
			PromptMode:    getEnvOrDefault("FORMULA_PROMPT_MODE", string(defaults.Prompt)),
			Permission:    getEnvOrDefault("FORMULA_PERMISSION", string(character.PermissionActorOwner)),
			Announce:      getEnvAsBoolOrDefault("FORMULA_ANNOUNCE", true),
			PromptTimeout: getEnvAsDurationOrDefault("PROMPT_TIMEOUT", defaultPromptTimeout),

			PowerfulAlchemy: getEnvAsBoolOrDefault("FORMULA_POWERFUL_ALCHEMY", true),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	for _, section := range []any{&cfg.Catalog, &cfg.Formulas, &cfg.Log} {
		if err := validate(section); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// RequireDiscord validates the settings the bot cannot start without
func (c *Config) RequireDiscord() error {
	return validate(&c.Discord)
}

// Policy converts the configured modes
func (c *Config) Policy() (reconciler.Policy, error) {
	grant, err := reconciler.ParseGrantMode(c.Formulas.GrantMode)
	if err != nil {
		return reconciler.Policy{}, err
	}
	removal, err := reconciler.ParseRemovalMode(c.Formulas.RemovalMode)
	if err != nil {
		return reconciler.Policy{}, err
	}
	prompt, err := reconciler.ParsePromptMode(c.Formulas.PromptMode)
	if err != nil {
		return reconciler.Policy{}, err
	}
	return reconciler.Policy{Grant: grant, Removal: removal, Prompt: prompt}, nil
}

// Permission converts the configured permission
func (c *Config) Permission() (character.Permission, error) {
	return character.ParsePermission(c.Formulas.Permission)
}

var structValidator = validator.New()

func validate(section any) error {
	err := structValidator.Struct(section)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return alcherr.Wrap(err, "invalid configuration")
	}

	problems := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("%s is required", e.Namespace()))
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s], got %q", e.Namespace(), e.Param(), e.Value()))
		default:
			problems = append(problems, fmt.Sprintf("%s is invalid", e.Namespace()))
		}
	}
	return alcherr.InvalidArgumentf("invalid configuration: %s", strings.Join(problems, "; "))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
