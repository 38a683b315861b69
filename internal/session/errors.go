package session

import (
	"errors"
	"fmt"

	"github.com/jonathan/skill-diagnostic/internal/client"
)

// User-facing messages.
const (
	MsgNeedSkill        = "Please add at least one skill."
	MsgNeedSelection    = "Select at least one job."
	MsgNeedResume       = "Choose at least one resume file."
	MsgUnsupportedFile  = "Unsupported file type. Upload a PDF or DOCX resume."
	MsgNoJobs           = "No jobs found."
	MsgGeneric          = "An error occurred."
	MsgUnexpectedFormat = "Unexpected format."
	MsgNoSkillsSection  = "No skills section found in resume."
)

// ErrSuperseded is returned when a newer request of the same kind started
// before this one completed; its result was discarded.
var ErrSuperseded = errors.New("request superseded by a newer one")

// ValidationError means required input was missing; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Message maps an operation failure to the text shown to the user.
// Remote errors show the service's own message; recommendation format
// errors are called out; everything else is the generic failure.
func Message(op string, err error) string {
	var remoteErr *client.RemoteError
	if errors.As(err, &remoteErr) && remoteErr.Message != "" {
		return remoteErr.Message
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var formatErr *client.FormatError
	if errors.As(err, &formatErr) && op == client.OpDetails {
		return MsgUnexpectedFormat
	}

	return MsgGeneric
}
