package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Repair topics or requests linked from more than one place",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rep, err := e.svc.Entities.Cleanup(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d duplicate topic links and %d duplicate request links.\n",
			rep.TopicLinksRemoved, rep.RequestLinksRemoved)
		return nil
	},
}
