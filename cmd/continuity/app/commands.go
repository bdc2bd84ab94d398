package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/continuity/cmd/continuity/cmd/history"
	"github.com/agentstation/continuity/cmd/continuity/cmd/render"
	"github.com/agentstation/continuity/cmd/continuity/cmd/run"
	"github.com/agentstation/continuity/cmd/continuity/cmd/serve"
	"github.com/agentstation/continuity/cmd/continuity/cmd/think"
	"github.com/agentstation/continuity/cmd/continuity/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		withGroup(think.NewCommand(a), "core"),
		withGroup(run.NewCommand(a), "core"),
		withGroup(serve.NewCommand(a), "core"),
		withGroup(render.NewCommand(a), "stream"),
		withGroup(history.NewCommand(a), "stream"),
		version.NewCommand(a),
	)
}

func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}
