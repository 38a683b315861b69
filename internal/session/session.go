package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/skills"
	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// maxParallelUploads bounds concurrent resume extractions.
const maxParallelUploads = 4

// Service is the subset of the job-matching service a session needs.
type Service interface {
	SearchJobs(ctx context.Context, skills []string) ([]types.Job, error)
	JobDetails(ctx context.Context, jobIDs []types.JobID, skills []string) ([]types.JobDetailResult, error)
	ExtractSkills(ctx context.Context, filename string, resume io.Reader) (*types.SkillExtraction, error)
}

// Options configures a Session.
type Options struct {
	PageSize int
	Logger   zerolog.Logger
}

// Session drives the state store from user actions and service calls.
type Session struct {
	id    string
	store *Store
	svc   Service
	log   zerolog.Logger
}

// New creates a session with an empty skill set.
func New(svc Service, opts Options) *Session {
	id := uuid.NewString()
	return &Session{
		id:    id,
		store: NewStore(NewState(opts.PageSize)),
		svc:   svc,
		log:   opts.Logger.With().Str("session", id).Logger(),
	}
}

// ID returns the session's correlation id.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	return s.store.State()
}

// Dispatch applies a local event (skill edits, paging, selection, overlay).
func (s *Session) Dispatch(ev Event) State {
	return s.store.Dispatch(ev)
}

// Search runs a job search with the current skills. Empty skills fail with a
// ValidationError and no request is sent. A search overtaken by a newer one
// returns ErrSuperseded and leaves the state untouched.
func (s *Session) Search(ctx context.Context) error {
	current := s.store.State()
	if current.Skills.IsEmpty() {
		s.store.Dispatch(ValidationFailed{Message: MsgNeedSkill})
		return &ValidationError{Field: "skills", Message: MsgNeedSkill}
	}

	started := s.store.Dispatch(SearchStarted{})
	seq := started.Search.Seq
	s.log.Debug().Uint64("seq", seq).Strs("skills", started.Skills.List()).Msg("search started")

	jobs, err := s.svc.SearchJobs(ctx, started.Skills.List())

	next := s.store.Dispatch(SearchFinished{Seq: seq, Jobs: jobs, Err: err})
	if next.Search.Seq != seq {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", next.Search.Seq).Msg("discarded stale search result")
		return ErrSuperseded
	}
	if err != nil {
		s.log.Debug().Uint64("seq", seq).Err(err).Msg("search failed")
		return err
	}
	s.log.Debug().Uint64("seq", seq).Int("jobs", len(jobs)).Msg("search finished")
	return nil
}

// FetchRecommendations requests missing-skill recommendations for the
// selected jobs. An empty selection fails with a ValidationError and no
// request is sent.
func (s *Session) FetchRecommendations(ctx context.Context) error {
	return s.FetchRecommendationsFor(ctx, s.store.State().Selected)
}

// FetchRecommendationsFor requests recommendations for explicit job ids,
// which need not come from a search. The current skills are sent along.
func (s *Session) FetchRecommendationsFor(ctx context.Context, ids []types.JobID) error {
	if len(ids) == 0 {
		s.store.Dispatch(ValidationFailed{Message: MsgNeedSelection})
		return &ValidationError{Field: "selection", Message: MsgNeedSelection}
	}
	ids = append([]types.JobID(nil), ids...)

	started := s.store.Dispatch(RecsStarted{})
	seq := started.Recs.Seq
	s.log.Debug().Uint64("seq", seq).Int("jobs", len(ids)).Msg("recommendations started")

	rows, err := s.svc.JobDetails(ctx, ids, started.Skills.List())

	next := s.store.Dispatch(RecsFinished{Seq: seq, Rows: rows, Err: err})
	if next.Recs.Seq != seq {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", next.Recs.Seq).Msg("discarded stale recommendations")
		return ErrSuperseded
	}
	if err != nil {
		s.log.Debug().Uint64("seq", seq).Err(err).Msg("recommendations failed")
	}
	return err
}

// Upload extracts skills from one or more resume files and, when a skills
// section is found in any of them, replaces the skill set with the merged
// result (files in argument order). Files are uploaded concurrently; the
// first failure cancels the rest.
func (s *Session) Upload(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		s.store.Dispatch(ValidationFailed{Message: MsgNeedResume})
		return &ValidationError{Field: "resume", Message: MsgNeedResume}
	}
	for _, p := range paths {
		if !client.SupportedResume(p) {
			s.store.Dispatch(ValidationFailed{Message: MsgUnsupportedFile})
			return &ValidationError{Field: "resume", Message: fmt.Sprintf("%s: %s", p, MsgUnsupportedFile)}
		}
	}

	started := s.store.Dispatch(UploadStarted{})
	seq := started.Upload.Seq

	results := make([]*types.SkillExtraction, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			out, err := s.extractFile(gctx, p)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	err := g.Wait()

	var merged *types.SkillExtraction
	if err == nil {
		merged = mergeExtractions(results)
	}

	next := s.store.Dispatch(UploadFinished{Seq: seq, Extraction: merged, Err: err})
	if next.Upload.Seq != seq {
		s.log.Debug().Uint64("seq", seq).Msg("discarded stale extraction")
		return ErrSuperseded
	}
	return err
}

func (s *Session) extractFile(ctx context.Context, path string) (*types.SkillExtraction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &client.TransportError{Op: client.OpExtract, Message: "failed to open resume", Cause: err}
	}
	defer func() { _ = f.Close() }()

	out, err := s.svc.ExtractSkills(ctx, path, f)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("file", path).Bool("section_found", out.SkillsSectionFound).Int("skills", len(out.Skills)).Msg("resume extracted")
	return out, nil
}

func mergeExtractions(results []*types.SkillExtraction) *types.SkillExtraction {
	merged := &types.SkillExtraction{}
	set := skills.Set{}
	for _, r := range results {
		if r == nil || !r.SkillsSectionFound {
			continue
		}
		merged.SkillsSectionFound = true
		set = set.Replace(append(set.List(), r.Skills...))
	}
	merged.Skills = set.List()
	return merged
}
