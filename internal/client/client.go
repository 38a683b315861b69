// Package client talks to the job-matching service over HTTP.
// It covers job search, per-job recommendation details and resume skill
// extraction, and classifies failures into RemoteError, TransportError and
// FormatError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/skill-diagnostic/internal/schemas"
	"github.com/jonathan/skill-diagnostic/internal/types"
	schemafiles "github.com/jonathan/skill-diagnostic/schemas"
	"github.com/rs/zerolog"
)

// Operation names used in errors and logs.
const (
	OpSearch  = "search"
	OpDetails = "details"
	OpExtract = "extract"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "skilldiag/1.0"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 10 << 20

// Service is the contract of the job-matching service.
type Service interface {
	SearchJobs(ctx context.Context, skills []string) ([]types.Job, error)
	JobDetails(ctx context.Context, jobIDs []types.JobID, skills []string) ([]types.JobDetailResult, error)
	ExtractSkills(ctx context.Context, filename string, resume io.Reader) (*types.SkillExtraction, error)
}

// Options configures the client.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client // overrides Timeout when set
	Logger     zerolog.Logger
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Logger:    zerolog.Nop(),
	}
}

// Client is an HTTP implementation of Service.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

var _ Service = (*Client)(nil)

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		userAgent: userAgent,
		log:       opts.Logger,
	}, nil
}

// SearchJobs posts the skill list to /jobs.
func (c *Client) SearchJobs(ctx context.Context, skills []string) ([]types.Job, error) {
	req := &types.SearchRequest{Skills: skills}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid request: %w", OpSearch, err)
	}

	var jobs []types.Job
	if err := c.postJSON(ctx, OpSearch, "/jobs", req, schemafiles.JobsResponse, &jobs); err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}

// JobDetails posts the selected job ids and the user's skills to /job_details.
func (c *Client) JobDetails(ctx context.Context, jobIDs []types.JobID, skills []string) ([]types.JobDetailResult, error) {
	if skills == nil {
		skills = []string{}
	}
	req := &types.DetailsRequest{JobIDs: jobIDs, UserSkills: skills}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid request: %w", OpDetails, err)
	}

	var rows []types.JobDetailResult
	if err := c.postJSON(ctx, OpDetails, "/job_details", req, schemafiles.JobDetailsResponse, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []types.JobDetailResult{}
	}
	return rows, nil
}

// ExtractSkills uploads a resume as the multipart "resume" field to /extract_skills.
func (c *Client) ExtractSkills(ctx context.Context, filename string, resume io.Reader) (*types.SkillExtraction, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", filepath.Base(filename))
	if err != nil {
		return nil, &TransportError{Op: OpExtract, Message: "failed to build upload", Cause: err}
	}
	if _, err := io.Copy(part, resume); err != nil {
		return nil, &TransportError{Op: OpExtract, Message: "failed to read resume", Cause: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &TransportError{Op: OpExtract, Message: "failed to build upload", Cause: err}
	}

	var out types.SkillExtraction
	if err := c.post(ctx, OpExtract, "/extract_skills", mw.FormDataContentType(), &buf, schemafiles.ExtractSkillsResponse, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SupportedResume reports whether the service accepts the file's extension.
func SupportedResume(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx":
		return true
	default:
		return false
	}
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload any, schemaName string, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Op: op, Message: "failed to encode request", Cause: err}
	}
	return c.post(ctx, op, path, "application/json", bytes.NewReader(body), schemaName, out)
}

func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader, schemaName string, out any) error {
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Str("op", op).Str("request_id", requestID).Err(err).Msg("request failed")
		return &TransportError{Op: op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Message: "failed to read response body", Cause: err}
	}

	c.log.Debug().
		Str("op", op).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Int("bytes", len(data)).
		Msg("response received")

	return decodeResponse(op, resp.StatusCode, data, schemaName, out)
}

// decodeResponse applies the classification order of the service contract:
// unparseable body, then an explicit error field (any status), then a bad
// status, then shape validation.
func decodeResponse(op string, status int, data []byte, schemaName string, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		msg := "unparseable response body"
		if status < 200 || status > 299 {
			msg = fmt.Sprintf("HTTP status %d with unparseable body", status)
		}
		return &TransportError{Op: op, Message: msg}
	}

	if msg, ok := errorField(trimmed); ok {
		return &RemoteError{Op: op, Message: msg, StatusCode: status}
	}

	if status < 200 || status > 299 {
		return &TransportError{Op: op, Message: fmt.Sprintf("HTTP status %d", status)}
	}

	schema, err := schemas.Response(schemaName)
	if err != nil {
		return &FormatError{Op: op, Cause: err}
	}
	if err := schema.Validate(trimmed); err != nil {
		return &FormatError{Op: op, Cause: err}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &FormatError{Op: op, Cause: err}
	}
	return nil
}

// errorField extracts a non-empty top-level "error" value from an object body.
func errorField(data []byte) (string, bool) {
	if data[0] != '{' {
		return "", false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", false
	}
	raw, ok := obj["error"]
	if !ok {
		return "", false
	}

	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, msg != ""
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" || text == "false" {
		return "", false
	}
	return text, true
}
