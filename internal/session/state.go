// Package session holds the client-side state of a skill diagnostic session
// and the transitions that change it.
//
// Every change is an Event applied by Reduce, a pure function from the prior
// State to the next one. Network-backed operations are split into a Started
// event, which bumps a per-kind sequence number, and a Finished event tagged
// with that number; a Finished event whose number is no longer the latest is
// ignored, so a late response never overwrites newer state.
package session

import (
	"fmt"

	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/paging"
	"github.com/jonathan/skill-diagnostic/internal/render"
	"github.com/jonathan/skill-diagnostic/internal/skills"
	"github.com/jonathan/skill-diagnostic/internal/types"
)

// DefaultPageSize is the number of jobs per page when none is configured.
const DefaultPageSize = 5

// SearchState is the job search slice of the state.
type SearchState struct {
	Seq       uint64
	Loading   bool
	Jobs      []types.Job
	Err       string
	NoResults bool
	Page      int
}

// RecsState is the recommendation slice of the state.
type RecsState struct {
	Seq     uint64
	Loading bool
	Rows    []types.JobDetailResult
	Err     string
}

// UploadState is the resume extraction slice of the state.
type UploadState struct {
	Seq     uint64
	Loading bool
	Err     string
	Notice  string
}

// Overlay is the expanded-description view. Its only state is the text.
type Overlay struct {
	Open  bool
	Title string
	Text  string
}

// State is the whole session.
type State struct {
	Skills   skills.Set
	Input    string // pending, uncommitted skill input
	Alert    string // last validation message
	PageSize int

	Search   SearchState
	Selected []types.JobID
	Recs     RecsState
	Upload   UploadState
	Overlay  Overlay
}

// NewState returns the initial state. A non-positive pageSize uses DefaultPageSize.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{PageSize: pageSize, Search: SearchState{Page: 1}}
}

// CurrentPage returns the visible page of search results.
func (s State) CurrentPage() paging.Page[types.Job] {
	return paging.Slice(s.Search.Jobs, s.PageSize, s.Search.Page)
}

// IsSelected reports whether the job is checked.
func (s State) IsSelected(id types.JobID) bool {
	for _, sel := range s.Selected {
		if sel == id {
			return true
		}
	}
	return false
}

// HasJob reports whether id is among the current results.
func (s State) HasJob(id types.JobID) bool {
	for _, job := range s.Search.Jobs {
		if job.ID == id {
			return true
		}
	}
	return false
}

// Event is a state transition.
type Event interface {
	apply(State) State
}

// Reduce applies ev to s and returns the next state. s is not modified.
func Reduce(s State, ev Event) State {
	if ev == nil {
		return s
	}
	return ev.apply(s)
}

// InputChanged replaces the pending skill input.
type InputChanged struct{ Text string }

func (e InputChanged) apply(s State) State {
	s.Input = e.Text
	return s
}

// InputCommitted adds the pending input as skills and empties it.
type InputCommitted struct{}

func (InputCommitted) apply(s State) State {
	s.Skills = s.Skills.Add(s.Input)
	s.Input = ""
	return s
}

// SkillsAdded merges comma-separated raw input into the skill set.
type SkillsAdded struct{ Raw string }

func (e SkillsAdded) apply(s State) State {
	s.Skills = s.Skills.Add(e.Raw)
	return s
}

// SkillRemoved removes one skill by exact match.
type SkillRemoved struct{ Skill string }

func (e SkillRemoved) apply(s State) State {
	s.Skills = s.Skills.Remove(e.Skill)
	return s
}

// SkillsReplaced swaps the whole skill set.
type SkillsReplaced struct{ Skills []string }

func (e SkillsReplaced) apply(s State) State {
	s.Skills = s.Skills.Replace(e.Skills)
	return s
}

// SkillsCleared empties the skill set and the pending input.
type SkillsCleared struct{}

func (SkillsCleared) apply(s State) State {
	s.Skills = s.Skills.Clear()
	s.Input = ""
	return s
}

// ValidationFailed records a message for input that blocked a request.
type ValidationFailed struct{ Message string }

func (e ValidationFailed) apply(s State) State {
	s.Alert = e.Message
	return s
}

// AlertDismissed clears the validation message.
type AlertDismissed struct{}

func (AlertDismissed) apply(s State) State {
	s.Alert = ""
	return s
}

// SearchStarted begins a new search. Results, selection, pagination and
// recommendations from earlier searches are discarded, and any recommendation
// still in flight is superseded.
type SearchStarted struct{}

func (SearchStarted) apply(s State) State {
	s.Alert = ""
	s.Search = SearchState{Seq: s.Search.Seq + 1, Loading: true, Page: 1}
	s.Selected = nil
	s.Recs = RecsState{Seq: s.Recs.Seq + 1}
	s.Overlay = Overlay{}
	return s
}

// SearchFinished delivers the outcome of search Seq.
type SearchFinished struct {
	Seq  uint64
	Jobs []types.Job
	Err  error
}

func (e SearchFinished) apply(s State) State {
	if e.Seq != s.Search.Seq {
		return s
	}

	s.Search.Loading = false
	switch {
	case e.Err != nil:
		s.Search.Err = Message(client.OpSearch, e.Err)
	case len(e.Jobs) == 0:
		s.Search.NoResults = true
	default:
		s.Search.Jobs = e.Jobs
		s.Search.Page = 1
	}
	return s
}

// PageRequested moves to a page, clamped into range.
type PageRequested struct{ Number int }

func (e PageRequested) apply(s State) State {
	s.Search.Page = paging.Clamp(e.Number, len(s.Search.Jobs), s.PageSize)
	return s
}

// JobToggled checks or unchecks a job. Ids not in the results are ignored.
type JobToggled struct{ ID types.JobID }

func (e JobToggled) apply(s State) State {
	if !s.HasJob(e.ID) {
		return s
	}

	next := make([]types.JobID, 0, len(s.Selected)+1)
	found := false
	for _, id := range s.Selected {
		if id == e.ID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, e.ID)
	}
	s.Selected = next
	return s
}

// RecsStarted begins a recommendation fetch.
type RecsStarted struct{}

func (RecsStarted) apply(s State) State {
	s.Alert = ""
	s.Recs = RecsState{Seq: s.Recs.Seq + 1, Loading: true}
	s.Overlay = Overlay{}
	return s
}

// RecsFinished delivers the outcome of recommendation fetch Seq.
type RecsFinished struct {
	Seq  uint64
	Rows []types.JobDetailResult
	Err  error
}

func (e RecsFinished) apply(s State) State {
	if e.Seq != s.Recs.Seq {
		return s
	}

	s.Recs.Loading = false
	if e.Err != nil {
		s.Recs.Err = Message(client.OpDetails, e.Err)
		return s
	}
	s.Recs.Rows = e.Rows
	return s
}

// UploadStarted begins a resume skill extraction.
type UploadStarted struct{}

func (UploadStarted) apply(s State) State {
	s.Alert = ""
	s.Upload = UploadState{Seq: s.Upload.Seq + 1, Loading: true}
	return s
}

// UploadFinished delivers the outcome of extraction Seq. When a skills
// section was found the skill set is replaced; otherwise it is left alone.
type UploadFinished struct {
	Seq        uint64
	Extraction *types.SkillExtraction
	Err        error
}

func (e UploadFinished) apply(s State) State {
	if e.Seq != s.Upload.Seq {
		return s
	}

	s.Upload.Loading = false
	switch {
	case e.Err != nil:
		s.Upload.Err = Message(client.OpExtract, e.Err)
	case e.Extraction == nil || !e.Extraction.SkillsSectionFound:
		s.Upload.Notice = MsgNoSkillsSection
	default:
		s.Skills = s.Skills.Replace(e.Extraction.Skills)
		s.Input = ""
		s.Upload.Notice = fmt.Sprintf("Extracted %d skills from resume.", s.Skills.Len())
	}
	return s
}

// OverlayOpened shows the full description of recommendation row Row
// (1-based). Rows that are errors or whose description is not truncated
// have nothing more to show.
type OverlayOpened struct{ Row int }

func (e OverlayOpened) apply(s State) State {
	if e.Row < 1 || e.Row > len(s.Recs.Rows) {
		return s
	}
	row := s.Recs.Rows[e.Row-1]
	if row.IsError() || row.Job == nil {
		return s
	}
	if _, truncated := render.TruncateDescription(row.Job.Description); !truncated {
		return s
	}

	s.Overlay = Overlay{Open: true, Title: row.Job.Title, Text: row.Job.Description}
	return s
}

// OverlayDismissed closes the overlay, whether by the close control or a
// click outside it.
type OverlayDismissed struct{}

func (OverlayDismissed) apply(s State) State {
	s.Overlay = Overlay{}
	return s
}
