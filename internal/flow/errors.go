package flow

import (
	"errors"
	"fmt"
)

var (
	ErrSubmissionInFlight = errors.New("submission already in progress")
	ErrConfirmed          = errors.New("flow is already confirmed")
	ErrNoNextStep         = errors.New("no further step, submit instead")
	ErrNotFinalStep       = errors.New("submit is only available on the final step")
	ErrDetached           = errors.New("flow was closed")
)

// GenericMessage is shown for failures that are neither validation nor sink errors.
const GenericMessage = "Something went wrong. Please try again."

const TimeoutMessage = "The request timed out. Please try again."

// SinkError is a failed submission. The draft is preserved and the user may retry.
type SinkError struct {
	Message string
	Err     error
}

func (e *SinkError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// UnexpectedError wraps anything the sink did not classify, including panics.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string { return "unexpected: " + e.Err.Error() }

func (e *UnexpectedError) Unwrap() error { return e.Err }

// UserMessage is the banner text for a submission error.
func UserMessage(err error) string {
	var se *SinkError
	if errors.As(err, &se) {
		return se.Message
	}
	return GenericMessage
}
