package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
)

func newEventsCommand(ctx *commandContext) *cobra.Command {
	var groupID string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print refinement events as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Kafka.Brokers == "" {
				return errors.New("kafka brokers are not configured (set KAFKA_BOOTSTRAP_SERVERS)")
			}
			bus, err := eventbus.NewKafkaEventBus(cfg.Kafka.Brokers, config.Logger)
			if err != nil {
				return err
			}
			defer bus.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err = bus.Subscribe(runCtx, groupID, cfg.Kafka.Topic, func(_ context.Context, evt eventbus.Event) error {
				fmt.Fprintln(out, eventLine(evt))
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "zstctl", "Kafka consumer group")
	return cmd
}
