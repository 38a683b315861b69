package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/session"
	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/spf13/cobra"
)

const shellPrompt = "skilldiag> "

// maxShellLine bounds one input line; pasted skill lists can be long.
const maxShellLine = 1 << 20

const shellHelp = `Commands:
  add <a, b, ...>     add comma-separated skills
  type <text>         set the pending skill input
  enter               add the pending input as skills
  rm <skill>          remove a skill (exact match)
  clear               remove all skills
  skills              show skills
  upload <file...>    replace skills with those extracted from PDF/DOCX resumes
  search              search jobs with the current skills
  jobs                show the current page of jobs
  page <n> | next | prev
  toggle <id...>      select or unselect jobs
  recommend           show missing skills and courses for selected jobs
  more <n>            show the full description of recommendation n
  close               close the description view
  help
  quit`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive skill diagnostic session",
	Long:  "Start an interactive session: build a skill list, search, page through jobs, select some and view recommendations.",
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.printer.SetShowMoreHint("(more %d)")
	sh := &shell{app: a, out: cmd.OutOrStdout()}
	return sh.run(commandContext(cmd), cmd.InOrStdin())
}

type shell struct {
	app *app
	out io.Writer
}

// run reads commands until quit, EOF or cancellation.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	_, _ = fmt.Fprintln(sh.out, "Type 'help' for commands.")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxShellLine)
	for {
		_, _ = fmt.Fprint(sh.out, shellPrompt)
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(sh.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		if quit := sh.exec(ctx, scanner.Text()); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	sess := sh.app.session
	p := sh.app.printer

	switch strings.ToLower(name) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		_, _ = fmt.Fprintln(sh.out, shellHelp)
	case "skills", "show":
		st := sess.State()
		p.PrintSkills(st.Skills.List(), st.Input)
	case "add":
		st := sess.Dispatch(session.SkillsAdded{Raw: rest})
		p.PrintSkills(st.Skills.List(), st.Input)
	case "type":
		st := sess.Dispatch(session.InputChanged{Text: rest})
		p.PrintSkills(st.Skills.List(), st.Input)
	case "enter":
		st := sess.Dispatch(session.InputCommitted{})
		p.PrintSkills(st.Skills.List(), st.Input)
	case "rm", "remove":
		st := sess.Dispatch(session.SkillRemoved{Skill: rest})
		p.PrintSkills(st.Skills.List(), st.Input)
	case "clear":
		st := sess.Dispatch(session.SkillsCleared{})
		p.PrintSkills(st.Skills.List(), st.Input)
	case "upload":
		if err := sess.Upload(ctx, strings.Fields(rest)...); err != nil {
			sh.report(client.OpExtract, err)
			break
		}
		st := sess.State()
		p.PrintNotice(st.Upload.Notice)
		p.PrintSkills(st.Skills.List(), st.Input)
	case "search":
		if err := sess.Search(ctx); err != nil {
			sh.report(client.OpSearch, err)
			break
		}
		sh.printJobs()
	case "jobs":
		sh.printJobs()
	case "page":
		n, err := strconv.Atoi(rest)
		if err != nil {
			p.PrintError("Usage: page <n>")
			break
		}
		sess.Dispatch(session.PageRequested{Number: n})
		sh.printJobs()
	case "next":
		sess.Dispatch(session.PageRequested{Number: sess.State().Search.Page + 1})
		sh.printJobs()
	case "prev":
		sess.Dispatch(session.PageRequested{Number: sess.State().Search.Page - 1})
		sh.printJobs()
	case "toggle", "select":
		for _, raw := range strings.Fields(rest) {
			id := types.JobID(raw)
			if !sess.State().HasJob(id) {
				p.PrintError(fmt.Sprintf("Job %s is not in the results.", id))
				continue
			}
			sess.Dispatch(session.JobToggled{ID: id})
		}
		sh.printJobs()
	case "recommend", "rec":
		if err := sess.FetchRecommendations(ctx); err != nil {
			sh.report(client.OpDetails, err)
			break
		}
		p.PrintDetails(sess.State().Recs.Rows)
	case "more":
		n, err := strconv.Atoi(rest)
		if err != nil {
			p.PrintError("Usage: more <n>")
			break
		}
		overlay := sess.Dispatch(session.OverlayOpened{Row: n}).Overlay
		if !overlay.Open {
			p.PrintNotice("Nothing more to show.")
			break
		}
		p.PrintOverlay(overlay.Title, overlay.Text)
	case "close":
		sess.Dispatch(session.OverlayDismissed{})
	default:
		p.PrintError(fmt.Sprintf("Unknown command %q. Type 'help'.", name))
	}
	return false
}

func (sh *shell) printJobs() {
	st := sh.app.session.State()
	switch {
	case st.Search.Loading:
		sh.app.printer.PrintNotice("Searching...")
	case st.Search.NoResults:
		sh.app.printer.PrintNotice(session.MsgNoJobs)
	case len(st.Search.Jobs) == 0:
		sh.app.printer.PrintNotice("No search yet. Add skills and type 'search'.")
	default:
		sh.app.printer.PrintJobs(st.CurrentPage(), st.IsSelected)
	}
}

func (sh *shell) report(op string, err error) {
	if errors.Is(err, session.ErrSuperseded) {
		return
	}
	sh.app.log.Debug().Err(err).Str("op", op).Msg("operation failed")
	sh.app.printer.PrintError(session.Message(op, err))
	sh.app.session.Dispatch(session.AlertDismissed{})
}
