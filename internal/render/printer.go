package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/jonathan/skill-diagnostic/internal/paging"
	"github.com/jonathan/skill-diagnostic/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// scoreBarCells is the width of the match score bar
	scoreBarCells = 20
)

// DefaultShowMoreHint is appended to truncated descriptions; %d is the row number.
const DefaultShowMoreHint = "[show more #%d]"

// Printer writes human-readable views to a terminal.
type Printer struct {
	out          io.Writer
	showMoreHint string
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, showMoreHint: DefaultShowMoreHint}
}

// SetShowMoreHint changes the affordance shown after truncated descriptions.
// The format receives the 1-based row number.
func (p *Printer) SetShowMoreHint(format string) {
	p.showMoreHint = format
}

// printBox prints a formatted box with a title and content, wrapping long lines.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range wrap(content, inner) {
		fmt.Fprintf(p.out, "│ %-*s │\n", inner, line)
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSkills lists the current skill tags and any pending input.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSkills(skills []string, pendingInput string) {
	if len(skills) == 0 {
		fmt.Fprintln(p.out, "Skills: (none)")
	} else {
		tags := make([]string, len(skills))
		for i, s := range skills {
			tags[i] = "[" + s + "]"
		}
		fmt.Fprintf(p.out, "Skills: %s\n", strings.Join(tags, " "))
	}
	if pendingInput != "" {
		fmt.Fprintf(p.out, "Input:  %s\n", pendingInput)
	}
}

// PrintJobs outputs one page of job cards. selected may be nil.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintJobs(page paging.Page[types.Job], selected func(types.JobID) bool) {
	if page.TotalItems == 0 {
		return
	}

	fmt.Fprintf(p.out, "Jobs %d-%d of %d (page %d/%d)\n",
		page.Offset()+1, page.Offset()+len(page.Items), page.TotalItems, page.Number, page.TotalPages)

	for _, job := range page.Items {
		mark := " "
		if selected != nil && selected(job.ID) {
			mark = "x"
		}
		fmt.Fprintf(p.out, "[%s] %-6s %s\n", mark, job.ID, job.Title)
		fmt.Fprintf(p.out, "           Company:  %s\n", job.Company)
		fmt.Fprintf(p.out, "           Location: %s\n", job.Location)
		if pct, ok := job.MatchPercent(); ok {
			fmt.Fprintf(p.out, "           Match:    %5.1f%% %s\n", pct, scoreBar(pct))
		}
	}

	var nav []string
	if page.HasPrev() {
		nav = append(nav, "prev")
	}
	if page.HasNext() {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(p.out, "(%s)\n", strings.Join(nav, " | "))
	}
}

// PrintDetails outputs recommendation rows. Error rows are shown inline and
// do not affect the other rows.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDetails(rows []types.JobDetailResult) {
	if len(rows) == 0 {
		fmt.Fprintln(p.out, "No recommendations available.")
		return
	}

	for i, row := range rows {
		n := i + 1
		if row.IsError() || row.Job == nil {
			msg := row.Error
			if msg == "" {
				msg = "missing job details"
			}
			fmt.Fprintf(p.out, "%d. Job ID %s: %s\n", n, row.Key(), msg)
			continue
		}

		job := row.Job
		fmt.Fprintf(p.out, "%d. %s, %s (%s)\n", n, job.Title, job.Company, job.Location)

		preview, truncated := TruncateDescription(job.Description)
		if truncated {
			preview += " " + fmt.Sprintf(p.showMoreHint, n)
		}
		if preview != "" {
			fmt.Fprintf(p.out, "   %s\n", preview)
		}

		if len(row.MissingSkillsCourses) == 0 {
			fmt.Fprintln(p.out, "   Missing skills & courses: None")
			continue
		}
		fmt.Fprintln(p.out, "   Missing skills & courses:")
		for _, frag := range row.MissingSkillsCourses {
			fmt.Fprintf(p.out, "     • %s\n", FragmentText(frag))
		}
	}
}

// PrintOverlay shows full text in a box, as the expanded description view.
func (p *Printer) PrintOverlay(title, text string) {
	p.printBox(title, text)
}

// PrintError writes an inline error message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintError(msg string) {
	fmt.Fprintf(p.out, "✗ %s\n", msg)
}

// PrintNotice writes an informational message.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintNotice(msg string) {
	fmt.Fprintf(p.out, "• %s\n", msg)
}

func scoreBar(pct float64) string {
	filled := int(math.Round(pct / 100 * scoreBarCells))
	filled = max(0, min(scoreBarCells, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", scoreBarCells-filled)
}
