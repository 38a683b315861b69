package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService records calls and delegates responses to the optional funcs.
type fakeService struct {
	mu sync.Mutex

	searchCalls [][]string
	searchFn    func(call int, skills []string) ([]types.Job, error)

	detailCalls []detailCall
	detailsFn   func(ids []types.JobID, skills []string) ([]types.JobDetailResult, error)

	extractCalls []string
	extractFn    func(filename string, body []byte) (*types.SkillExtraction, error)
}

type detailCall struct {
	ids    []types.JobID
	skills []string
}

func (f *fakeService) SearchJobs(_ context.Context, skills []string) ([]types.Job, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, skills)
	call := len(f.searchCalls)
	f.mu.Unlock()
	if f.searchFn == nil {
		return nil, nil
	}
	return f.searchFn(call, skills)
}

func (f *fakeService) JobDetails(_ context.Context, ids []types.JobID, skills []string) ([]types.JobDetailResult, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, detailCall{ids: ids, skills: skills})
	f.mu.Unlock()
	if f.detailsFn == nil {
		return nil, nil
	}
	return f.detailsFn(ids, skills)
}

func (f *fakeService) ExtractSkills(_ context.Context, filename string, resume io.Reader) (*types.SkillExtraction, error) {
	body, err := io.ReadAll(resume)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.extractCalls = append(f.extractCalls, filepath.Base(filename))
	f.mu.Unlock()
	if f.extractFn == nil {
		return &types.SkillExtraction{}, nil
	}
	return f.extractFn(filename, body)
}

func newTestSession(svc Service) *Session {
	return New(svc, Options{PageSize: 5, Logger: zerolog.Nop()})
}

func writeResume(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	s := New(&fakeService{}, Options{Logger: zerolog.Nop()})

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, DefaultPageSize, s.State().PageSize)
	assert.True(t, s.State().Skills.IsEmpty())
}

func TestSearch_EmptySkillsSendsNothing(t *testing.T) {
	svc := &fakeService{}
	s := newTestSession(svc)

	err := s.Search(context.Background())

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, MsgNeedSkill, validationErr.Message)
	assert.Equal(t, MsgNeedSkill, s.State().Alert)
	assert.Empty(t, svc.searchCalls)
	assert.False(t, s.State().Search.Loading)
}

func TestSearch_Success(t *testing.T) {
	svc := &fakeService{
		searchFn: func(int, []string) ([]types.Job, error) {
			return sampleJobs(7), nil
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "Go, sql"})

	require.NoError(t, s.Search(context.Background()))

	require.Len(t, svc.searchCalls, 1)
	assert.Equal(t, []string{"Go", "sql"}, svc.searchCalls[0])

	st := s.State()
	assert.Len(t, st.Search.Jobs, 7)
	assert.Equal(t, 2, st.CurrentPage().TotalPages)
	assert.False(t, st.Search.Loading)
}

func TestSearch_ErrorSurfacesMessage(t *testing.T) {
	svc := &fakeService{
		searchFn: func(int, []string) ([]types.Job, error) {
			return nil, &client.RemoteError{Op: client.OpSearch, Message: "Skills required"}
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "go"})

	err := s.Search(context.Background())

	var remoteErr *client.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "Skills required", s.State().Search.Err)
}

func TestSearch_LateResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	svc := &fakeService{
		searchFn: func(call int, _ []string) ([]types.Job, error) {
			if call == 1 {
				close(entered)
				<-release
				return sampleJobs(9), nil
			}
			return sampleJobs(2), nil
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "go"})

	firstErr := make(chan error, 1)
	go func() { firstErr <- s.Search(context.Background()) }()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first search never reached the service")
	}

	require.NoError(t, s.Search(context.Background()))
	close(release)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first search never returned")
	}
	assert.Len(t, s.State().Search.Jobs, 2)
}

func TestFetchRecommendations_EmptySelectionSendsNothing(t *testing.T) {
	svc := &fakeService{}
	s := newTestSession(svc)

	err := s.FetchRecommendations(context.Background())

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, MsgNeedSelection, s.State().Alert)
	assert.Empty(t, svc.detailCalls)
}

func TestFetchRecommendations_SendsSelectionAndSkills(t *testing.T) {
	rows := []types.JobDetailResult{
		{JobID: "a", Error: "Job not found"},
		{Job: &types.JobDetail{ID: "c", Title: "Dev"}, MissingSkillsCourses: []string{"docker"}},
	}
	svc := &fakeService{
		searchFn: func(int, []string) ([]types.Job, error) { return sampleJobs(3), nil },
		detailsFn: func([]types.JobID, []string) ([]types.JobDetailResult, error) {
			return rows, nil
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "go"})
	require.NoError(t, s.Search(context.Background()))
	s.Dispatch(JobToggled{ID: "a"})
	s.Dispatch(JobToggled{ID: "c"})

	require.NoError(t, s.FetchRecommendations(context.Background()))

	require.Len(t, svc.detailCalls, 1)
	assert.Equal(t, []types.JobID{"a", "c"}, svc.detailCalls[0].ids)
	assert.Equal(t, []string{"go"}, svc.detailCalls[0].skills)
	assert.Equal(t, rows, s.State().Recs.Rows)
}

func TestFetchRecommendations_FormatError(t *testing.T) {
	svc := &fakeService{
		searchFn: func(int, []string) ([]types.Job, error) { return sampleJobs(1), nil },
		detailsFn: func([]types.JobID, []string) ([]types.JobDetailResult, error) {
			return nil, &client.FormatError{Op: client.OpDetails, Cause: errors.New("not an array")}
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "go"})
	require.NoError(t, s.Search(context.Background()))
	s.Dispatch(JobToggled{ID: "a"})

	err := s.FetchRecommendations(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgUnexpectedFormat, s.State().Recs.Err)
}

func TestUpload_Validation(t *testing.T) {
	svc := &fakeService{}
	s := newTestSession(svc)

	err := s.Upload(context.Background())
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, MsgNeedResume, s.State().Alert)

	err = s.Upload(context.Background(), "resume.txt")
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, MsgUnsupportedFile, s.State().Alert)
	assert.Empty(t, svc.extractCalls)
}

func TestUpload_ReplacesSkills(t *testing.T) {
	svc := &fakeService{
		extractFn: func(_ string, body []byte) (*types.SkillExtraction, error) {
			assert.Equal(t, "%PDF-1.4", string(body))
			return &types.SkillExtraction{SkillsSectionFound: true, Skills: []string{"Python", "SQL"}}, nil
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "cobol"})

	require.NoError(t, s.Upload(context.Background(), writeResume(t, "cv.pdf", "%PDF-1.4")))

	st := s.State()
	assert.Equal(t, []string{"Python", "SQL"}, st.Skills.List())
	assert.False(t, st.Upload.Loading)
	assert.Equal(t, []string{"cv.pdf"}, svc.extractCalls)
}

func TestUpload_MergesFilesInArgumentOrder(t *testing.T) {
	svc := &fakeService{
		extractFn: func(filename string, _ []byte) (*types.SkillExtraction, error) {
			switch filepath.Base(filename) {
			case "a.pdf":
				// finish last so ordering cannot depend on completion order
				time.Sleep(20 * time.Millisecond)
				return &types.SkillExtraction{SkillsSectionFound: true, Skills: []string{"Go", "SQL"}}, nil
			case "b.docx":
				return &types.SkillExtraction{SkillsSectionFound: false}, nil
			default:
				return &types.SkillExtraction{SkillsSectionFound: true, Skills: []string{"sql", "Docker"}}, nil
			}
		},
	}
	s := newTestSession(svc)

	err := s.Upload(context.Background(),
		writeResume(t, "a.pdf", "a"),
		writeResume(t, "b.docx", "b"),
		writeResume(t, "c.pdf", "c"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "SQL", "Docker"}, s.State().Skills.List())
	assert.Len(t, svc.extractCalls, 3)
}

func TestUpload_NoSectionKeepsSkills(t *testing.T) {
	s := newTestSession(&fakeService{})
	s.Dispatch(SkillsAdded{Raw: "cobol"})

	require.NoError(t, s.Upload(context.Background(), writeResume(t, "cv.docx", "x")))

	st := s.State()
	assert.Equal(t, []string{"cobol"}, st.Skills.List())
	assert.Equal(t, MsgNoSkillsSection, st.Upload.Notice)
}

func TestUpload_ErrorKeepsSkills(t *testing.T) {
	svc := &fakeService{
		extractFn: func(string, []byte) (*types.SkillExtraction, error) {
			return nil, &client.RemoteError{Op: client.OpExtract, Message: "No selected file"}
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "cobol"})

	err := s.Upload(context.Background(), writeResume(t, "cv.pdf", "x"))
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, []string{"cobol"}, st.Skills.List())
	assert.Equal(t, "No selected file", st.Upload.Err)
}

func TestUpload_MissingFile(t *testing.T) {
	s := newTestSession(&fakeService{})

	err := s.Upload(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))

	var transportErr *client.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, MsgGeneric, s.State().Upload.Err)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewStore(NewState(5))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(SearchStarted{})
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), store.State().Search.Seq)
}

func TestFetchRecommendations_LateResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var calls int
	var callsMu sync.Mutex
	svc := &fakeService{
		searchFn: func(int, []string) ([]types.Job, error) { return sampleJobs(2), nil },
		detailsFn: func([]types.JobID, []string) ([]types.JobDetailResult, error) {
			callsMu.Lock()
			calls++
			call := calls
			callsMu.Unlock()
			if call == 1 {
				close(entered)
				<-release
				return []types.JobDetailResult{{JobID: "a", Error: "stale"}}, nil
			}
			return []types.JobDetailResult{{JobID: "b", Error: "fresh"}}, nil
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "go"})
	require.NoError(t, s.Search(context.Background()))
	s.Dispatch(JobToggled{ID: "a"})

	firstErr := make(chan error, 1)
	go func() { firstErr <- s.FetchRecommendations(context.Background()) }()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never reached the service")
	}

	s.Dispatch(JobToggled{ID: "b"})
	require.NoError(t, s.FetchRecommendations(context.Background()))
	close(release)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first fetch never returned")
	}

	st := s.State()
	assert.Equal(t, []types.JobDetailResult{{JobID: "b", Error: "fresh"}}, st.Recs.Rows)
	assert.False(t, st.Recs.Loading)
}

func TestFetchRecommendationsFor_ExplicitIDs(t *testing.T) {
	svc := &fakeService{
		detailsFn: func(ids []types.JobID, _ []string) ([]types.JobDetailResult, error) {
			return []types.JobDetailResult{{JobID: ids[0], Error: "Job not found"}}, nil
		},
	}
	s := newTestSession(svc)
	s.Dispatch(SkillsAdded{Raw: "sql, SQL"})

	require.NoError(t, s.FetchRecommendationsFor(context.Background(), []types.JobID{"77"}))

	require.Len(t, svc.detailCalls, 1)
	assert.Equal(t, []types.JobID{"77"}, svc.detailCalls[0].ids)
	assert.Equal(t, []string{"sql"}, svc.detailCalls[0].skills)
	assert.Empty(t, s.State().Selected)
	assert.Equal(t, "77", s.State().Recs.Rows[0].JobID.String())

	err := s.FetchRecommendationsFor(context.Background(), nil)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, svc.detailCalls, 1)
}
