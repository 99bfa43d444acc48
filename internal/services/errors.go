package services

import (
	"errors"
	"fmt"

	"jobify/cv-scorer/internal/locale"
	"jobify/cv-scorer/internal/models"
	"jobify/cv-scorer/internal/repositories"
)

type ErrorReason string

const (
	ReasonUnsupportedFormat    ErrorReason = "UnsupportedFormat"
	ReasonExtractionFailed     ErrorReason = "ExtractionFailed"
	ReasonCorruptOrUnsupported ErrorReason = "CorruptOrUnsupported"
	ReasonTimeout              ErrorReason = "Timeout"
	ReasonScorerUnavailable    ErrorReason = "ScorerUnavailable"
	ReasonCancelled            ErrorReason = "Cancelled"
)

var (
	ErrJobNotFound        = repositories.ErrJobNotFound
	ErrMalformedResponse  = errors.New("malformed AI response")
	ErrProgressClosed     = errors.New("progress stream already finished")
	ErrQueueFull          = errors.New("scoring queue is full")
	ErrWorkerStopped      = errors.New("scoring worker stopped")
	ErrProviderNotAllowed = errors.New("unsupported AI provider")
)

// ExtractionError is returned by an extraction backend.
type ExtractionError struct {
	Reason ErrorReason
	Format models.DocumentFormat
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s extraction failed (%s): %v", e.Format, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s extraction failed (%s)", e.Format, e.Reason)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// DocumentError is returned by the document parsing coordinator. MessageKey
// selects the localized text shown to the user.
type DocumentError struct {
	Reason     ErrorReason
	MessageKey locale.Key
	Err        error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("document parsing failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("document parsing failed (%s)", e.Reason)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func (e *DocumentError) UserMessage(loc locale.Locale) string {
	return locale.Message(loc, e.MessageKey)
}

// OrchestratorError is a terminal scoring failure surfaced to the caller.
type OrchestratorError struct {
	Reason ErrorReason
	Err    error
}

func (e *OrchestratorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("scoring failed (%s)", e.Reason)
}

func (e *OrchestratorError) Unwrap() error {
	return e.Err
}

func (e *OrchestratorError) MessageKey() locale.Key {
	switch e.Reason {
	case ReasonTimeout:
		return locale.MsgAITimeout
	case ReasonCancelled:
		return locale.MsgCancelled
	default:
		return locale.MsgInternal
	}
}

// ReasonOf returns the most specific reason carried by err, or "" if none.
func ReasonOf(err error) ErrorReason {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Reason
	}
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.Reason
	}
	var orchErr *OrchestratorError
	if errors.As(err, &orchErr) {
		return orchErr.Reason
	}
	return ""
}

// UserMessage returns the localized text shown to the user for err.
func UserMessage(err error, loc locale.Locale) string {
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.UserMessage(loc)
	}
	var orchErr *OrchestratorError
	if errors.As(err, &orchErr) {
		return locale.Message(loc, orchErr.MessageKey())
	}

	switch {
	case errors.Is(err, ErrJobNotFound):
		return locale.Message(loc, locale.MsgJobNotFound)
	case errors.Is(err, ErrQueueFull), errors.Is(err, ErrWorkerStopped):
		return locale.Message(loc, locale.MsgServerBusy)
	default:
		return locale.Message(loc, locale.MsgInternal)
	}
}
