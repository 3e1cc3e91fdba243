// Package common defines shared constants and sentinel errors used across
// mealbot layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Collaborator failures. Each one degrades to a user-facing reply in the
	// conversation engine and never escapes it.
	ErrTranscriptionUnavailable = errors.New("transcription unavailable")
	ErrExtractionUnavailable    = errors.New("extraction unavailable")
	ErrPersistenceFailure       = errors.New("persistence failure")
	ErrSummaryUnavailable       = errors.New("summary unavailable")
	ErrRenderFailure            = errors.New("render failure")

	// Auth errors (invalid or malformed token, bad webhook signature).
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid signature")
)
