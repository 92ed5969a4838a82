package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/prayz/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show prayer statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		acc := e.svc.Stats
		if reset {
			acc.Reset(cmd.Context())
			fmt.Fprintln(out, "Stats reset.")
			return nil
		}

		c := acc.Counters()
		for _, r := range stats.Report(c, acc.SessionsPerWeek(), time.Now()) {
			fmt.Fprintf(out, "%-20s %s\n", r.Label, r.Value)
		}
		if m := c.Milestone(); m != "" {
			fmt.Fprintf(out, "\n✦ %s\n", m)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("reset", false, "Zero every counter")
}
