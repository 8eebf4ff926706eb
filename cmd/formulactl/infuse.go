package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/alchemist-formulas/internal/domain/item"
	"github.com/KirkDiggler/alchemist-formulas/internal/events"
	"github.com/KirkDiggler/alchemist-formulas/internal/services"
)

var infuseCmd = &cobra.Command{
	Use:   "infuse <actor-id> <item.yaml>",
	Short: "Apply Powerful Alchemy to an item created on an actor",
	Long: `infuse emits an item created event for the actor and prints the item
as the listeners left it. Infused alchemical weapons and consumables made by
an alchemist with Powerful Alchemy get their save DCs raised to the class DC.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := loadItem(args[1])
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

		event, err := infuse(ctx, provider.EventBus, args[0], created)
		if err != nil {
			return err
		}
		return printItem(cmd.OutOrStdout(), event)
	},
}

// infuse runs the item created listeners. Without any it reports the feature as disabled.
func infuse(ctx context.Context, bus *events.Bus, actorID string, created *item.Item) (*events.ItemCreatedEvent, error) {
	if !bus.HasListeners(events.EventTypeItemCreated) {
		return nil, fmt.Errorf("powerful alchemy is disabled, set FORMULA_POWERFUL_ALCHEMY=true")
	}

	event := events.NewItemCreatedEvent(actorID, created)
	if err := bus.Emit(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// DecodeItem reads one item document
func DecodeItem(r io.Reader) (*item.Item, error) {
	var decoded item.Item
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return &decoded, nil
}

func loadItem(path string) (*item.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open item %s: %w", path, err)
	}
	defer f.Close()
	return DecodeItem(f)
}

func printItem(w io.Writer, event *events.ItemCreatedEvent) error {
	if event.Updated {
		fmt.Fprintf(w, "# %s updated to class DC %d\n", event.Item.Name, event.ClassDC)
	} else {
		fmt.Fprintf(w, "# %s unchanged\n", event.Item.Name)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(event.Item); err != nil {
		return fmt.Errorf("failed to encode item: %w", err)
	}
	return encoder.Close()
}
