package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/db"
	"github.com/sickboy0001/ZeSecThinkV2/repositories"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "zstctl",
		Short:         "ZeSecThink refinement batch CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default: config.yaml found upwards)")

	rootCmd.AddCommand(newRefineCommand(ctx))
	rootCmd.AddCommand(newBatchesCommand(ctx))
	rootCmd.AddCommand(newEventsCommand(ctx))
	return rootCmd
}

type commandContext struct {
	configFlag *string
	cfg        *config.AppConfig
}

func (c *commandContext) ensureConfig() (*config.AppConfig, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if c.configFlag != nil && *c.configFlag != "" {
		cfg, err := config.Load(*c.configFlag)
		if err != nil {
			return nil, err
		}
		c.cfg = cfg
	} else {
		cfg := config.GetConfig()
		c.cfg = &cfg
	}
	config.InitLogger(c.cfg.Logging)
	return c.cfg, nil
}

// stores 는 명령 하나가 쓰는 저장소 묶음이다.
type stores struct {
	posts     *repositories.PostRepository
	tags      *repositories.TagRepository
	prompts   *repositories.PromptRepository
	batches   *repositories.AIBatchRepository
	logs      *repositories.AIExecutionLogRepository
	histories *repositories.AIRefinementHistoryRepository
}

func newStores(database *mongo.Database) *stores {
	counters := repositories.NewCounterRepository(database)
	return &stores{
		posts:     repositories.NewPostRepository(database, counters),
		tags:      repositories.NewTagRepository(database, counters),
		prompts:   repositories.NewPromptRepository(database, counters),
		batches:   repositories.NewAIBatchRepository(database, counters),
		logs:      repositories.NewAIExecutionLogRepository(database, counters),
		histories: repositories.NewAIRefinementHistoryRepository(database, counters),
	}
}

// withStores 는 Mongo 에 연결해 fn 을 실행하고 연결을 닫는다.
func (c *commandContext) withStores(ctx context.Context, fn func(st *stores) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	return fn(newStores(database))
}
