// Package types provides type definitions for structured data exchanged with the job-matching service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JobID identifies a job. The service sends integers from /jobs and strings
// from /job_details, so both decode to the same textual form.
type JobID string

// UnmarshalJSON accepts a JSON string or number.
func (id *JobID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = JobID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("job id must be a string or number: %w", err)
	}
	*id = JobID(n.String())
	return nil
}

// String returns the id text.
func (id JobID) String() string {
	return string(id)
}

// Job is one search result.
type Job struct {
	ID         JobID    `json:"id"`
	Title      string   `json:"title"`
	Company    string   `json:"company"`
	Location   string   `json:"location"`
	MatchScore *float64 `json:"match_score,omitempty"` // 0.0-1.0 when present
}

// MatchPercent returns the match score as a percentage in [0,100].
// ok is false when the service did not send a score.
func (j Job) MatchPercent() (pct float64, ok bool) {
	if j.MatchScore == nil {
		return 0, false
	}
	pct = *j.MatchScore * 100
	return max(0, min(100, pct)), true
}

// JobDetail is the job record embedded in a recommendation row.
type JobDetail struct {
	ID          JobID  `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// JobDetailResult is one row of a /job_details response: either an error
// row (JobID + Error) or a detail row (Job + MissingSkillsCourses).
type JobDetailResult struct {
	JobID JobID  `json:"job_id,omitempty"`
	Error string `json:"error,omitempty"`

	Job                  *JobDetail `json:"job,omitempty"`
	MissingSkillsCourses []string   `json:"missing_skills_courses,omitempty"` // opaque markup fragments
}

// IsError reports whether the row carries an error instead of details.
func (r JobDetailResult) IsError() bool {
	return r.Error != ""
}

// Key returns the job id the row refers to, for either row kind.
func (r JobDetailResult) Key() JobID {
	if r.IsError() || r.Job == nil {
		return r.JobID
	}
	return r.Job.ID
}

// SkillExtraction is the /extract_skills response.
type SkillExtraction struct {
	SkillsSectionFound bool     `json:"skills_section_found"`
	Skills             []string `json:"skills"`
}
