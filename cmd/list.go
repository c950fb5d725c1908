package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"flowcap/internal/ingest"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available recordings",
	Args:  cobra.NoArgs,
	RunE:  listRecordings,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listRecordings(cmd *cobra.Command, args []string) error {
	sessions, err := ingest.LoadRecordings(recordingsDir)
	if err != nil {
		return fmt.Errorf("loading recordings: %w", err)
	}

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if outputFormat == "json" {
		type sessionSummary struct {
			SessionID   string    `json:"session_id"`
			Application string    `json:"application"`
			StartTime   time.Time `json:"start_time"`
			Events      int       `json:"events"`
		}
		summaries := make([]sessionSummary, 0, len(ids))
		for _, id := range ids {
			s := sessions[id]
			summaries = append(summaries, sessionSummary{
				SessionID:   s.SessionID,
				Application: s.Application,
				StartTime:   s.StartTime,
				Events:      len(s.Events),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tAPPLICATION\tSTART\tEVENTS")
	for _, id := range ids {
		s := sessions[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", s.SessionID, s.Application, s.StartTime.Format(time.RFC3339), len(s.Events))
	}
	return w.Flush()
}
