package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Manage prayer lists",
}

var listAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		l, err := e.svc.Entities.CreateList(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added list %d: %s\n", l.ID, l.Name)
		return nil
	},
}

var listLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show every list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		coll, err := e.svc.Collections(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(coll.Lists) == 0 {
			fmt.Fprintln(out, "No lists yet. Add one with: prayz list add <name>")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-30s  %6s  %8s  %s\n", "ID", "Name", "Topics", "Requests", "All")
		fmt.Fprintln(out, strings.Repeat("─", 62))
		for _, l := range coll.Lists {
			var active int
			for _, tid := range l.TopicIDs {
				active += len(coll.ActiveRequestIDs(tid))
			}
			inAll := "yes"
			if l.ExcludeFromAll {
				inAll = "no"
			}
			fmt.Fprintf(out, "%-5d  %-30s  %6d  %8d  %s\n", l.ID, truncate(l.Name, 30), len(l.TopicIDs), active, inAll)
		}
		return nil
	},
}

var listRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "list")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := strings.Join(args[1:], " ")
		if err := e.svc.Entities.RenameList(cmd.Context(), id, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed list %d to %s\n", id, name)
		return nil
	},
}

var listExcludeCmd = &cobra.Command{
	Use:   "exclude <id>",
	Short: "Leave a list out of \"Pray all\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setListExcluded(cmd, args[0], true)
	},
}

var listIncludeCmd = &cobra.Command{
	Use:   "include <id>",
	Short: "Bring a list back into \"Pray all\"",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setListExcluded(cmd, args[0], false)
	},
}

var listRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a list with its topics and requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "list")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Entities.DeleteList(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %d\n", id)
		return nil
	},
}

func setListExcluded(cmd *cobra.Command, arg string, excluded bool) error {
	id, err := parseID(arg, "list")
	if err != nil {
		return err
	}
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.svc.Entities.SetListExcluded(cmd.Context(), id, excluded); err != nil {
		return err
	}
	verb := "included in"
	if excluded {
		verb = "excluded from"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "List %d %s \"Pray all\"\n", id, verb)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	listCmd.AddCommand(listAddCmd, listLsCmd, listRenameCmd, listExcludeCmd, listIncludeCmd, listRmCmd)
}
