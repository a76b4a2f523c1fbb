package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command of the connect4 server binary.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect4",
		Short: "Connect-Four match and matchmaking server",
		Long:  "Runs live Connect-Four matches, ranked and scrimmage queues, friends, chat and the leaderboard.",
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewTokenCommand())

	return cmd
}
