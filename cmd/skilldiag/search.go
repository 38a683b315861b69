package main

import (
	"fmt"

	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/session"
	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search jobs matching a set of skills",
	Long: "Search the job-matching service with comma-separated skills and/or skills extracted from resumes. " +
		"With --select, also fetch missing-skill course recommendations for the chosen job IDs.",
	Example: `  skilldiag search --skills "python, sql"
  skilldiag search --resume cv.pdf --skills docker --page 2
  skilldiag search --skills go --select 12 --select 40`,
	RunE: runSearch,
}

var (
	searchSkills  string
	searchResumes []string
	searchPage    int
	searchSelect  []string
)

func init() {
	searchCmd.Flags().StringVarP(&searchSkills, "skills", "s", "", "Comma-separated skills")
	searchCmd.Flags().StringSliceVarP(&searchResumes, "resume", "r", nil, "PDF or DOCX resume to extract skills from (repeatable)")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "Result page to show")
	searchCmd.Flags().StringSliceVar(&searchSelect, "select", nil, "Job IDs to fetch recommendations for (repeatable)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	sess := a.session

	if len(searchResumes) > 0 {
		if err := sess.Upload(ctx, searchResumes...); err != nil {
			return userError(a.log, client.OpExtract, err)
		}
		a.printer.PrintNotice(sess.State().Upload.Notice)
	}

	sess.Dispatch(session.SkillsAdded{Raw: searchSkills})
	if err := sess.Search(ctx); err != nil {
		return userError(a.log, client.OpSearch, err)
	}

	st := sess.State()
	a.printer.PrintSkills(st.Skills.List(), "")
	if st.Search.NoResults {
		a.printer.PrintNotice(session.MsgNoJobs)
		return nil
	}

	for _, raw := range searchSelect {
		id := types.JobID(raw)
		if !st.HasJob(id) {
			a.printer.PrintError(fmt.Sprintf("Job %s is not in the results; skipped.", id))
			continue
		}
		if st.IsSelected(id) {
			continue
		}
		st = sess.Dispatch(session.JobToggled{ID: id})
	}

	st = sess.Dispatch(session.PageRequested{Number: searchPage})
	a.printer.PrintJobs(st.CurrentPage(), st.IsSelected)

	if len(searchSelect) == 0 {
		return nil
	}
	if err := sess.FetchRecommendations(ctx); err != nil {
		return userError(a.log, client.OpDetails, err)
	}
	a.printer.PrintDetails(sess.State().Recs.Rows)
	return nil
}
