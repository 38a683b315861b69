package main

import (
	"errors"

	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/session"
	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details",
	Short: "Show missing skills and courses for specific jobs",
	Long:  "Fetch job details and missing-skill course recommendations for known job IDs without running a search first.",
	Example: `  skilldiag details --job-id 12 --job-id 40 --skills "python, sql"
  skilldiag details --job-id 12 --full`,
	RunE: runDetails,
}

var (
	detailsJobIDs []string
	detailsSkills string
	detailsFull   bool
)

func init() {
	detailsCmd.Flags().StringSliceVarP(&detailsJobIDs, "job-id", "j", nil, "Job ID (repeatable, required)")
	detailsCmd.Flags().StringVarP(&detailsSkills, "skills", "s", "", "Comma-separated skills you already have")
	detailsCmd.Flags().BoolVar(&detailsFull, "full", false, "Also print full text of truncated descriptions")

	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, _ []string) error {
	ids := make([]types.JobID, 0, len(detailsJobIDs))
	for _, raw := range detailsJobIDs {
		if raw != "" {
			ids = append(ids, types.JobID(raw))
		}
	}
	if len(ids) == 0 {
		return errors.New(session.MsgNeedSelection)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	sess := a.session
	sess.Dispatch(session.SkillsAdded{Raw: detailsSkills})
	if err := sess.FetchRecommendationsFor(commandContext(cmd), ids); err != nil {
		return userError(a.log, client.OpDetails, err)
	}

	st := sess.State()
	a.printer.PrintDetails(st.Recs.Rows)
	if !detailsFull {
		return nil
	}
	for i := range st.Recs.Rows {
		overlay := sess.Dispatch(session.OverlayOpened{Row: i + 1}).Overlay
		if !overlay.Open {
			continue
		}
		a.printer.PrintOverlay(overlay.Title, overlay.Text)
		sess.Dispatch(session.OverlayDismissed{})
	}
	return nil
}
