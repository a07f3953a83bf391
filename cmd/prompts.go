package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edvenity/recruiter/internal/logger"
	"github.com/edvenity/recruiter/internal/prompts"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage stored prompt templates",
}

var promptsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the built-in prompt templates, overwriting same-named ones",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		seedPrompts()
	},
}

var promptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored prompt templates",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		listPrompts()
	},
}

func init() {
	promptsCmd.AddCommand(promptsSeedCmd, promptsListCmd)
	rootCmd.AddCommand(promptsCmd)
}

func seedPrompts() {
	ctx := context.Background()
	log, cfg := setup()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("opening storage", zap.Error(err))
	}
	defer store.Close()

	saved, err := prompts.Seed(ctx, store)
	if err != nil {
		log.Fatal("seeding prompts", zap.Error(err))
	}

	for _, p := range saved {
		log.Info("prompt stored", zap.String("name", p.Name), zap.Strings("required_elements", p.RequiredElements))
	}
}

func listPrompts() {
	ctx := context.Background()
	log, cfg := setup()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("opening storage", zap.Error(err))
	}
	defer store.Close()

	items, err := prompts.NewService(store).List(ctx)
	if err != nil {
		log.Fatal("listing prompts", zap.Error(err))
	}

	log.Info("stored prompts", zap.Int("count", len(items)))
	for _, p := range items {
		log.Info("prompt",
			zap.String("name", p.Name),
			zap.String("preview", logger.TruncateForLog(p.Content, 80)),
		)
	}
}
