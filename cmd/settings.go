package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prayz/internal/settings"
)

// settingKeys maps a CLI key to a parser that applies a value.
var settingKeys = map[string]func(*settings.Settings, string) error{
	"shuffle": func(s *settings.Settings, v string) error {
		b, err := strconv.ParseBool(v)
		s.ShuffleRequests = b
		return err
	},
	"keep-awake": func(s *settings.Settings, v string) error {
		b, err := strconv.ParseBool(v)
		s.KeepAwake = b
		return err
	},
	"count": func(s *settings.Settings, v string) error {
		if v == "all" {
			s.SelectCount = 0
			return nil
		}
		n, err := parseBounded(v, 1, settings.MaxSelectCount)
		s.SelectCount = n
		return err
	},
	"time": func(s *settings.Settings, v string) error {
		if v == "unlimited" {
			s.TimeValue = settings.UnlimitedTime
			return nil
		}
		n, err := parseBounded(v, settings.MinTime, settings.MaxTime)
		s.TimeValue = n
		return err
	},
	"answered": func(s *settings.Settings, v string) error {
		n, err := parseBounded(v, 0, settings.MaxSelectCount)
		s.AnsweredCount = n
		return err
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change session settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSettings(cmd)
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show session settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSettings(cmd)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a session setting",
	Long: "Change a session setting. Keys: " + strings.Join(sortedKeys(), ", ") + ".\n" +
		"count takes a number or \"all\"; time takes minutes or \"unlimited\".",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		apply, ok := settingKeys[args[0]]
		if !ok {
			return fmt.Errorf("unknown setting %q (want one of %s)", args[0], strings.Join(sortedKeys(), ", "))
		}
		next := settings.Default()
		if err := apply(&next, args[1]); err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", args[1], args[0], err)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		e.svc.Settings.Update(cmd.Context(), func(s *settings.Settings) {
			_ = apply(s, args[1])
		})
		return printSettings(cmd, e.svc.Settings.Get())
	},
}

func showSettings(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return printSettings(cmd, e.svc.Settings.Get())
}

func printSettings(cmd *cobra.Command, s settings.Settings) error {
	count := "all"
	if s.SelectCount > 0 {
		count = strconv.Itoa(s.SelectCount)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-12s %s\n", "count", count)
	fmt.Fprintf(out, "%-12s %s\n", "time", s.TimeLabel())
	fmt.Fprintf(out, "%-12s %d\n", "answered", s.AnsweredCount)
	fmt.Fprintf(out, "%-12s %t\n", "shuffle", s.ShuffleRequests)
	fmt.Fprintf(out, "%-12s %t\n", "keep-awake", s.KeepAwake)
	return nil
}

func parseBounded(v string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("must be within %d-%d", lo, hi)
	}
	return n, nil
}

func sortedKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}
