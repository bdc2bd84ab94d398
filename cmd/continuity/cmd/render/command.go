// Package render provides the render command.
package render

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/continuity/internal/cmd/application"
	"github.com/agentstation/continuity/internal/cmd/output"
)

// Result lists the files a render wrote.
type Result struct {
	Thoughts int      `json:"thoughts" yaml:"thoughts"`
	Files    []string `json:"files" yaml:"files"`
}

// NewCommand creates the render command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Rebuild the site from stored thoughts",
		Long: `Render rewrites index.html, feed.xml and thoughts.md from the stored
thoughts. No provider is called and nothing is committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			all, err := client.Thoughts()
			if err != nil {
				return err
			}
			files, err := client.Render()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !format.IsTable() {
				return output.NewFormatter(format).Format(w, Result{Thoughts: len(all), Files: files})
			}

			fmt.Fprintf(w, "Rendered %d thoughts.\n", len(all))
			for _, f := range files {
				fmt.Fprintf(w, "  %s\n", f)
			}
			return nil
		},
	}
}
