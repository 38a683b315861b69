package main

import (
	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [resume...]",
	Short: "Extract skills from PDF or DOCX resumes",
	Long: "Upload one or more resumes to the service and print the skills found in their skills sections. " +
		"Multiple files are uploaded concurrently and merged in argument order.",
	Example: `  skilldiag extract cv.pdf
  skilldiag extract --resume cv.pdf --resume cover.docx`,
	RunE: runExtract,
}

var extractResumes []string

func init() {
	extractCmd.Flags().StringSliceVarP(&extractResumes, "resume", "r", nil, "PDF or DOCX resume (repeatable)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	paths := append(append([]string(nil), extractResumes...), args...)

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Upload(commandContext(cmd), paths...); err != nil {
		return userError(a.log, client.OpExtract, err)
	}

	st := a.session.State()
	a.printer.PrintNotice(st.Upload.Notice)
	a.printer.PrintSkills(st.Skills.List(), "")
	return nil
}
