package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/thatsimonsguy/vent-panel/db"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List the most recent journal events",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := db.RecentEventsCLI(dbPath, journalLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), journalTable(entries))
		return nil
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List boot sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := db.SessionsCLI(dbPath)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sessionsTable(sessions))
		return nil
	},
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 50, "Number of events to show")
	rootCmd.AddCommand(journalCmd, sessionsCmd)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func journalTable(entries []db.Entry) string {
	t := newTable("id", "at", "session", "kind", "detail")
	for _, e := range entries {
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.Event.At.Local().Format(time.DateTime),
			shortID(e.Session),
			string(e.Event.Kind),
			eventDetail(e),
		)
	}
	return t.String()
}

func eventDetail(e db.Entry) string {
	ev := e.Event
	switch {
	case ev.Machine != "" && ev.From != "":
		return fmt.Sprintf("%s: %s -> %s", ev.Machine, ev.From, ev.To)
	case ev.Parameter != "" && ev.Machine != "":
		return fmt.Sprintf("%s = %d", ev.Parameter, ev.Value)
	case ev.Parameter != "":
		return ev.Parameter
	}
	return ""
}

func sessionsTable(sessions []db.Session) string {
	t := newTable("session", "started", "ended", "events")
	for _, s := range sessions {
		ended := "running"
		if s.EndedAt != nil {
			ended = s.EndedAt.Local().Format(time.DateTime)
		}
		t.Row(s.ID, s.StartedAt.Local().Format(time.DateTime), ended, strconv.Itoa(s.Events))
	}
	return t.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
