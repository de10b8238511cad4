package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sickboy0001/ZeSecThinkV2/config"
	"github.com/sickboy0001/ZeSecThinkV2/eventbus"
	"github.com/sickboy0001/ZeSecThinkV2/gemini"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
	"github.com/sickboy0001/ZeSecThinkV2/services"
)

func newRefineCommand(ctx *commandContext) *cobra.Command {
	var (
		userID     string
		from       string
		to         string
		promptSlug string
		promptFile string
		ids        []int64
	)

	cmd := &cobra.Command{
		Use:   "refine",
		Short: "Run a typo-correction batch over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay("from", from)
			if err != nil {
				return err
			}
			end, err := parseDay("to", to)
			if err != nil {
				return err
			}
			var prompt string
			if promptFile != "" {
				raw, err := os.ReadFile(promptFile)
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				prompt = string(raw)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			gen, err := gemini.NewClient(runCtx, cfg.Gemini)
			if err != nil {
				return err
			}
			bus := eventbus.FromConfig(runCtx, cfg.Kafka, config.Logger)
			defer bus.Close()

			return ctx.withStores(runCtx, func(st *stores) error {
				orchestrator := refinement.NewOrchestrator(refinement.Stores{
					Tags:      st.tags,
					Batches:   st.batches,
					Logs:      st.logs,
					Histories: st.histories,
				}, gen, cfg.Refinement, refinement.WithPublisher(bus, cfg.Kafka.Topic))
				reconciler := refinement.NewReconciler(st.batches, st.posts, st.histories)
				svc := services.NewRefinementService(st.posts, st.batches,
					services.NewPromptService(st.prompts, gen.Model()), orchestrator, reconciler)

				out := cmd.OutOrStdout()
				outcome, err := svc.Run(runCtx, services.RunBatchInput{
					UserID:     userID,
					Start:      start,
					End:        end,
					PostIDs:    ids,
					PromptSlug: promptSlug,
					Prompt:     prompt,
				}, func(line string) {
					fmt.Fprintln(out, line)
				})
				if err != nil {
					return err
				}
				printOutcome(cmd, outcome)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID whose posts are refined")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&promptSlug, "prompt-slug", services.SlugTypo, "Prompt slug whose active version is used")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "Use this prompt template instead of the stored one")
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "Restrict to these post IDs (comma separated)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func printOutcome(cmd *cobra.Command, outcome *refinement.Outcome) {
	out := cmd.OutOrStdout()
	if len(outcome.Results) > 0 {
		fmt.Fprint(out, renderTable(
			[]string{"Post", "Fixed title", "Fixed text", "Changes"},
			buildResultRows(outcome.Results),
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
		))
	}
	fmt.Fprintf(out, "batch %d: %d result(s)\n", outcome.BatchID, len(outcome.Results))
}
