// Package schemas embeds the JSON Schemas describing successful responses
// of the job-matching service.
package schemas

import (
	"embed"
	"fmt"
)

// Schema file names.
const (
	JobsResponse          = "jobs_response.schema.json"
	JobDetailsResponse    = "job_details_response.schema.json"
	ExtractSkillsResponse = "extract_skills_response.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Names lists every embedded schema.
func Names() []string {
	return []string{JobsResponse, JobDetailsResponse, ExtractSkillsResponse}
}

// Read returns the content of the named schema.
func Read(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("schema %s not embedded: %w", name, err)
	}
	return string(data), nil
}
