package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/prayz/internal/prayer"
)

var requestCmd = &cobra.Command{
	Use:     "request",
	Aliases: []string{"req"},
	Short:   "Manage prayer requests",
}

var requestAddCmd = &cobra.Command{
	Use:   "add <topic-id> <description>",
	Short: "Add a request to the end of a topic",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := parseID(args[0], "topic")
		if err != nil {
			return err
		}
		priority, _ := cmd.Flags().GetInt("priority")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := e.svc.Entities.CreateRequest(cmd.Context(), topicID, strings.Join(args[1:], " "), priority)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added request %d: %s\n", r.ID, r.Description)
		return nil
	},
}

var requestLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, _ := cmd.Flags().GetInt("topic")
		all, _ := cmd.Flags().GetBool("all")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		coll, err := e.svc.Collections(cmd.Context())
		if err != nil {
			return err
		}
		if topicID > 0 && coll.Topic(topicID) == nil {
			return fmt.Errorf("topic %d not found", topicID)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s  %-3s  %6s  %-20s  %-40s  %s\n", "ID", "Pri", "Prayed", "Topic", "Description", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		var n int
		for _, r := range coll.Requests {
			owner := coll.OwnerTopic(r.ID)
			if topicID > 0 && (owner == nil || owner.ID != topicID) {
				continue
			}
			if !all && !r.IsActive() {
				continue
			}
			topic := "-"
			if owner != nil {
				topic = owner.Name
			}
			n++
			fmt.Fprintf(out, "%-5d  %-3d  %6s  %-20s  %-40s  %s\n",
				r.ID, r.Priority, humanize.Comma(int64(r.PrayerCount)),
				truncate(topic, 20), truncate(r.Description, 40), requestStatus(r))
		}
		fmt.Fprintf(out, "\n%d requests\n", n)
		return nil
	},
}

var requestAnswerCmd = &cobra.Command{
	Use:   "answer <id> [how it was answered]",
	Short: "Mark a request answered",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "request")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		coll, err := e.svc.Collections(ctx)
		if err != nil {
			return err
		}
		switch cur := coll.Request(id); {
		case cur == nil:
			return fmt.Errorf("request %d not found", id)
		case cur.AnsweredDate != nil:
			return fmt.Errorf("request %d is already answered", id)
		}

		now := e.svc.Clock.Now()
		desc := strings.Join(args[1:], " ")
		r, err := e.svc.Entities.UpdateRequest(ctx, id, prayer.RequestChanges{
			AnsweredDate:      &now,
			AnswerDescription: &desc,
		})
		if err != nil {
			return err
		}
		e.svc.Stats.AddRequestsAnswered(ctx, 1)
		fmt.Fprintf(cmd.OutOrStdout(), "Praise! Request %d answered: %s\n", r.ID, r.Description)
		return nil
	},
}

var requestArchiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Hide a request from every session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "request")
		if err != nil {
			return err
		}
		undo, _ := cmd.Flags().GetBool("undo")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		archived := !undo
		if _, err := e.svc.Entities.UpdateRequest(cmd.Context(), id, prayer.RequestChanges{Archived: &archived}); err != nil {
			return err
		}
		verb := "Archived"
		if undo {
			verb = "Restored"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s request %d\n", verb, id)
		return nil
	},
}

var requestPriorityCmd = &cobra.Command{
	Use:   "priority <id> <1-5>",
	Short: "Set a request's priority",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "request")
		if err != nil {
			return err
		}
		p, err := strconv.Atoi(args[1])
		if err != nil || p < prayer.MinPriority || p > prayer.MaxPriority {
			return fmt.Errorf("priority must be %d-%d, got %q", prayer.MinPriority, prayer.MaxPriority, args[1])
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		r, err := e.svc.Entities.UpdateRequest(cmd.Context(), id, prayer.RequestChanges{Priority: &p})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Request %d priority %d\n", r.ID, r.Priority)
		return nil
	},
}

var requestRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "request")
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.Entities.DeleteRequest(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted request %d\n", id)
		return nil
	},
}

func requestStatus(r prayer.Request) string {
	switch {
	case r.Archived:
		return "archived"
	case r.AnsweredDate != nil:
		return "answered " + humanize.RelTime(*r.AnsweredDate, time.Now(), "ago", "from now")
	}
	return "active"
}

func init() {
	requestAddCmd.Flags().Int("priority", prayer.DefaultPriority, "Priority 1-5; higher comes up more often")
	requestLsCmd.Flags().Int("topic", 0, "Only requests in this topic")
	requestLsCmd.Flags().Bool("all", false, "Include answered and archived requests")
	requestArchiveCmd.Flags().Bool("undo", false, "Restore an archived request")

	requestCmd.AddCommand(requestAddCmd, requestLsCmd, requestAnswerCmd, requestArchiveCmd, requestPriorityCmd, requestRmCmd)
}
