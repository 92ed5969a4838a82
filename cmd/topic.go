package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Manage topics within lists",
}

var topicAddCmd = &cobra.Command{
	Use:   "add <list-id> <name>",
	Short: "Add a topic to the end of a list",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, err := parseID(args[0], "list")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		t, err := e.svc.Entities.CreateTopic(cmd.Context(), listID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added topic %d: %s\n", t.ID, t.Name)
		return nil
	},
}

var topicLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show topics, optionally for one list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listID, _ := cmd.Flags().GetInt("list")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		coll, err := e.svc.Collections(cmd.Context())
		if err != nil {
			return err
		}
		if listID > 0 && coll.List(listID) == nil {
			return fmt.Errorf("list %d not found", listID)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s  %-30s  %-20s  %8s\n", "ID", "Name", "List", "Requests")
		fmt.Fprintln(out, strings.Repeat("─", 69))
		var n int
		for _, l := range coll.Lists {
			if listID > 0 && l.ID != listID {
				continue
			}
			for _, tid := range l.TopicIDs {
				t := coll.Topic(tid)
				if t == nil {
					continue
				}
				n++
				fmt.Fprintf(out, "%-5d  %-30s  %-20s  %8d\n",
					t.ID, truncate(t.Name, 30), truncate(l.Name, 20), len(coll.ActiveRequestIDs(t.ID)))
			}
		}
		fmt.Fprintf(out, "\n%d topics\n", n)
		return nil
	},
}

var topicMvCmd = &cobra.Command{
	Use:   "mv <topic-id> <list-id>",
	Short: "Move a topic to the end of another list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseID(args[0], "topic")
		if err != nil {
			return err
		}
		listID, err := parseID(args[1], "list")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Entities.MoveTopic(cmd.Context(), topicID, listID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved topic %d to list %d\n", topicID, listID)
		return nil
	},
}

var topicRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a topic",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "topic")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := strings.Join(args[1:], " ")
		if err := e.svc.Entities.RenameTopic(cmd.Context(), id, name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed topic %d to %s\n", id, name)
		return nil
	},
}

var topicRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a topic and its requests",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "topic")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Entities.DeleteTopic(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %d\n", id)
		return nil
	},
}

func init() {
	topicLsCmd.Flags().Int("list", 0, "Only topics in this list")

	topicCmd.AddCommand(topicAddCmd, topicLsCmd, topicMvCmd, topicRenameCmd, topicRmCmd)
}
