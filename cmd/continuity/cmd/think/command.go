// Package think provides the think command: one cycle, then exit.
package think

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/cmd/output"
	"github.com/agentstation/continuity/pkg/thoughts"
)

// NewCommand creates the think command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "think",
		Short: "Run one think cycle",
		Long: `Think loads the previous thoughts, asks the provider for the next one,
stores it, rebuilds the site and commits the result to git.`,
		Example: `  continuity think
  continuity think -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}
}

func run(cmd *cobra.Command, app application.Application) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	provider, err := app.Provider()
	if err != nil {
		return err
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	// Structured formats print only the thought.
	w := cmd.OutOrStdout()
	status := w
	if !format.IsTable() {
		status = io.Discard
	}

	history, err := client.Thoughts()
	if err != nil {
		return err
	}
	fmt.Fprintf(status, "Loaded %d previous thoughts.\n", len(history))
	fmt.Fprintln(status, "Thinking...")

	t, thinkErr := client.Think(cmd.Context())
	if t.Number == 0 {
		return thinkErr
	}

	if !format.IsTable() {
		if err := output.NewFormatter(format).Format(w, t); err != nil {
			return err
		}
		return thinkErr
	}

	fmt.Fprintf(w, "Thought generated via %s.\n", DisplayName(providerOf(t, provider.ID())))
	fmt.Fprintf(w, "Thought #%d saved.\n", t.Number)
	fmt.Fprintf(w, "\n%s\n", t.Content)

	// the thought is stored even when rendering or committing failed
	return thinkErr
}

func providerOf(t thoughts.Thought, fallback string) string {
	if t.Provider != "" {
		return t.Provider
	}
	return fallback
}

// DisplayName turns a provider id into the name shown to users.
func DisplayName(id string) string {
	return cases.Title(language.English).String(id)
}
