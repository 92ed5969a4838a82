package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every list, topic, request, session and stat",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		out := cmd.OutOrStdout()

		if !yes {
			fmt.Fprint(out, "This deletes all prayer data. Type \"yes\" to continue: ")
			line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(line) != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if err := e.svc.Entities.Reset(ctx); err != nil {
			return fmt.Errorf("reset entities: %w", err)
		}
		if err := e.svc.Events.DeleteAll(ctx); err != nil {
			return fmt.Errorf("reset history: %w", err)
		}
		e.svc.Stats.Reset(ctx)
		e.svc.Log.Info().Msg("all data reset")

		fmt.Fprintln(out, "All prayer data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
