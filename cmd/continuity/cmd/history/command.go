// Package history provides the history command.
package history

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/cmd/output"
	"github.com/agentstation/continuity/pkg/errors"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// NewCommand creates the history command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"ls", "log"},
		Short:   "List stored thoughts or memory commits",
		Example: `  continuity history
  continuity history --limit 5 -o wide
  continuity history --git`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			if limit < 0 {
				return errors.NewValidationError("limit", limit, "limit must not be negative")
			}
			if _, err := output.ParseFormat(app.OutputFormat()); err != nil {
				return err
			}

			if git, _ := cmd.Flags().GetBool("git"); git {
				return listCommits(cmd, app, limit)
			}
			return listThoughts(cmd, app, limit)
		},
	}

	cmd.Flags().IntP("limit", "n", 0, "show only the most recent n entries (0 for all)")
	cmd.Flags().Bool("git", false, "list memory commits instead of thought files")

	return cmd
}

func listThoughts(cmd *cobra.Command, app application.Application, limit int) error {
	client, err := app.Client()
	if err != nil {
		return err
	}

	all, err := client.Thoughts()
	if err != nil {
		return err
	}
	all = thoughts.Recent(all, limit)

	format := output.DetectFormat(app.OutputFormat())
	var data any = all
	if format.IsTable() {
		data = output.ThoughtsTable(all, format == output.FormatWide)
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}

func listCommits(cmd *cobra.Command, app application.Application, limit int) error {
	mem, err := app.Memory()
	if err != nil {
		return err
	}
	if mem == nil {
		return errors.NewConfigError("git", "git memory is disabled (set git.enabled)", nil)
	}

	entries, err := mem.History(app.ThoughtsDir(), limit)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())
	var data any = entries
	if format.IsTable() {
		data = output.HistoryTable(entries, format == output.FormatWide)
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}
