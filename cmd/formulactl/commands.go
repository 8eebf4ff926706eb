package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/alchemist-formulas/internal/catalog"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/character"
	"github.com/KirkDiggler/alchemist-formulas/internal/domain/formula"
	"github.com/KirkDiggler/alchemist-formulas/internal/reconciler"
	"github.com/KirkDiggler/alchemist-formulas/internal/repositories/actors"
	"github.com/KirkDiggler/alchemist-formulas/internal/services"
	"github.com/KirkDiggler/alchemist-formulas/internal/services/formulas"
)

var (
	assumeYes bool
	asUser    string
)

// cliUser acts as GM so every permission mode lets the CLI manage formulas
func cliUser() character.User {
	return character.User{ID: asUser, Name: asUser, IsGM: true, Active: true}
}

var planCmd = &cobra.Command{
	Use:   "plan <actor-id> <level>",
	Short: "Show what a level change would grant and remove without saving",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(args[1])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		provider, cleanup, err := newProvider(ctx, &services.ProviderConfig{})
		if err != nil {
			return err
		}
		defer cleanup()

		plan, err := provider.FormulaService.Plan(ctx, args[0], level)
		if err != nil {
			return err
		}
		printPlan(cmd.OutOrStdout(), plan)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <actor-id> <level>",
	Short: "Set an actor's level and reconcile its formula book",
	Long: `apply stores the new level and runs the configured grant and removal
policy. Prompts are asked on the terminal unless --yes accepts them all.
With --actors instead of Redis the result is printed but not saved.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(args[1])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		provider, cleanup, err := newProvider(ctx, &services.ProviderConfig{})
		if err != nil {
			return err
		}
		defer cleanup()

		var confirmer reconciler.Confirmer = reconciler.AcceptAll
		if !assumeYes {
			confirmer = newTerminalConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
		}

		if err := provider.Actors.SetLevel(ctx, args[0], level); err != nil {
			return err
		}

		user := cliUser()
		result, err := provider.FormulaService.HandleLevelChange(ctx, &formulas.LevelChangeInput{
			ActorID:    args[0],
			NewLevel:   level,
			ActingUser: user,
			Online:     []character.User{user},
			Confirmer:  confirmer,
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), result)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [actor-id...]",
	Short: "Record current levels as processed",
	Long:  "sync records each actor's level as its previous level. Without ids every party alchemist is synced.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		provider, cleanup, err := newProvider(ctx, &services.ProviderConfig{})
		if err != nil {
			return err
		}
		defer cleanup()

		synced, err := provider.FormulaService.SyncPreviousLevels(ctx, args)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d alchemist(s)\n", synced)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load compendium packs or actors into Redis",
}

var seedPacksCmd = &cobra.Command{
	Use:   "packs <pack.yaml...>",
	Short: "Store YAML compendium packs in Redis",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client, err := requireRedis(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		for _, path := range args {
			pack, err := catalog.LoadPackFile(path)
			if err != nil {
				return err
			}

			recipes := pack.Recipes()
			if err := catalog.NewRedisSource(client, pack.Name()).Save(ctx, recipes); err != nil {
				return err
			}
			logger.Info("Pack seeded", zap.String("pack", pack.Name()), zap.Int("recipes", len(recipes)))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d recipes\n", pack.Name(), len(recipes))
		}
		return nil
	},
}

var seedActorsCmd = &cobra.Command{
	Use:   "actors <actors.yaml>",
	Short: "Store YAML actors in Redis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		client, err := requireRedis(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		return seedActors(ctx, actors.NewRedis(client), args[0], logger)
	},
}

func init() {
	applyCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Accept every prompt")
	applyCmd.Flags().StringVar(&asUser, "as", "formulactl", "User id recorded as the acting GM")

	seedCmd.AddCommand(seedPacksCmd)
	seedCmd.AddCommand(seedActorsCmd)
}

func requireRedis(ctx context.Context) (*redis.Client, error) {
	client, err := openRedis(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("REDIS_URL is required to seed")
	}
	return client, nil
}

func parseLevel(value string) (int, error) {
	level, err := strconv.Atoi(value)
	if err != nil || level < 1 {
		return 0, fmt.Errorf("level must be a positive integer, got %q", value)
	}
	return level, nil
}

func printPlan(w io.Writer, plan *formulas.PlanResult) {
	fmt.Fprintf(w, "%s: level %d -> %d\n", plan.Actor.Name, plan.PreviousLevel, plan.NewLevel)
	if plan.Outcome == nil || !plan.Outcome.Changed() {
		fmt.Fprintln(w, "No formula changes")
	} else {
		printRecipes(w, "Would learn", plan.Outcome.Accepted)
		printRecipes(w, "Would remove", plan.Outcome.Removed)
	}
	printUnresolved(w, plan.Unresolved)
}

func printResult(w io.Writer, result *formulas.LevelChangeResult) {
	if result.Skipped != formulas.SkipNone {
		fmt.Fprintf(w, "%s: skipped (%s)\n", result.ActorName, result.Skipped)
		return
	}

	fmt.Fprintf(w, "%s: level %d -> %d\n", result.ActorName, result.PreviousLevel, result.NewLevel)
	printRecipes(w, "Learned", result.Learned())
	printRecipes(w, "Removed", result.Removed())
	if result.Outcome != nil && !result.Outcome.Changed() {
		fmt.Fprintln(w, "No formula changes")
	}
	printUnresolved(w, result.Unresolved)
}

func printRecipes(w io.Writer, heading string, recipes []*formula.Recipe) {
	if len(recipes) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", heading)
	for _, recipe := range recipes {
		fmt.Fprintf(w, "  [%2d] %s (%s)\n", recipe.Level, recipe.Name, recipe.ID)
	}
}

func printUnresolved(w io.Writer, ids []string) {
	for _, id := range ids {
		fmt.Fprintf(w, "Unresolved: %s\n", id)
	}
}
