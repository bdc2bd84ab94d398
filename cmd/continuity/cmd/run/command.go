// Package run provides the run command: think on a schedule until stopped.
package run

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentstation/continuity"
	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/schedule"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// NewCommand creates the run command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Think on a schedule until interrupted",
		Long: `Run starts the scheduler and runs a think cycle on every tick until
SIGINT or SIGTERM. A failed cycle is logged and the schedule keeps going.

Without flags the configured schedule is used (hourly by default).`,
		Example: `  continuity run
  continuity run --interval 30m --immediate
  continuity run --schedule "0 */6 * * *"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, app)
		},
	}

	cmd.Flags().Duration("interval", 0, "think every interval instead of on a cron schedule")
	cmd.Flags().String("schedule", "", "cron expression or duration (default from config)")
	cmd.Flags().Bool("immediate", false, "run one cycle as soon as the scheduler starts")

	return cmd
}

func runSchedule(cmd *cobra.Command, app application.Application) error {
	logger := app.Logger()

	if _, err := app.Provider(); err != nil {
		return err
	}

	var opts []continuity.Option
	spec, override, err := specFromFlags(cmd)
	if err != nil {
		return err
	}
	switch {
	case override:
		opts = append(opts, continuity.WithSchedule(spec))
	case spec.Immediate:
		opts = append(opts, continuity.WithImmediate())
	}

	client, err := app.Client(opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	client.OnThought(func(t thoughts.Thought) {
		fmt.Fprintf(out, "Thought #%d saved.\n", t.Number)
	})

	if err := client.AutoThinkOn(); err != nil {
		return err
	}
	defer func() {
		if err := client.AutoThinkOff(); err != nil {
			logger.Error().Err(err).Msg("Failed to stop scheduler")
		}
	}()

	fmt.Fprintln(out, "Thinking on schedule. Press Ctrl+C to stop.")
	if next := client.NextThink(); !next.IsZero() {
		logger.Info().Str("next", next.UTC().Format(time.RFC3339)).Msg("Next cycle scheduled")
	}

	<-cmd.Context().Done()
	logger.Info().Msg("Stopping")
	return nil
}

// specFromFlags builds a schedule from the command flags. override is false
// when neither --interval nor --schedule was given; the returned spec then
// only carries Immediate and the configured schedule stays in effect.
func specFromFlags(cmd *cobra.Command) (schedule.Spec, bool, error) {
	flags := cmd.Flags()
	immediate, _ := flags.GetBool("immediate")
	if !flags.Changed("interval") && !flags.Changed("schedule") {
		return schedule.Spec{Immediate: immediate}, false, nil
	}

	interval, _ := flags.GetDuration("interval")
	expr, _ := flags.GetString("schedule")

	var spec schedule.Spec
	if flags.Changed("interval") {
		spec = schedule.Spec{Interval: interval}
		if err := spec.Validate(); err != nil {
			return schedule.Spec{}, false, err
		}
	} else {
		parsed, err := schedule.Parse(expr)
		if err != nil {
			return schedule.Spec{}, false, err
		}
		spec = parsed
	}
	spec.Immediate = immediate
	return spec, true, nil
}
