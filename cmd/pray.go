package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/prayz/internal/app"
)

var prayCmd = &cobra.Command{
	Use:   "pray",
	Short: "Start a prayer session",
	Long:  "Start a prayer session across every list not excluded from \"all\", or on one list with --list.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, _ := cmd.Flags().GetInt("list")
		if listID < 0 {
			return fmt.Errorf("invalid list id %d", listID)
		}
		return runApp(cmd, app.Options{Pray: true, ListID: listID})
	},
}

func init() {
	prayCmd.Flags().Int("list", 0, "Pray through one list instead of all")
}
