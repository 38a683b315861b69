package main

import (
	"errors"

	"github.com/jonathan/skill-diagnostic/internal/session"
	"github.com/rs/zerolog"
)

// userError converts a failed operation into the message the user sees.
// The underlying cause is kept in the debug log.
func userError(log zerolog.Logger, op string, err error) error {
	log.Debug().Err(err).Str("op", op).Msg("operation failed")
	return errors.New(session.Message(op, err))
}
