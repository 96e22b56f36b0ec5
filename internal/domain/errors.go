package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session matches the id or code.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuestionNotFound indicates the referenced question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrPlayerNotFound indicates a player acted before joining.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrQuestionSetNotFound indicates importable content could not be loaded.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrNotHost rejects host-only operations from anyone else.
	ErrNotHost = errors.New("caller is not the session host")
	// ErrIllegalTransition rejects operations whose phase/status precondition
	// does not hold. Callers wrap it with the offending state for context.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrAlreadyAnswered rejects a second answer for the same question.
	ErrAlreadyAnswered = errors.New("already answered")
	// ErrWindowExpired rejects answers arriving after the countdown elapsed.
	ErrWindowExpired = errors.New("answer window expired")
	// ErrValidation rejects malformed input (option index out of range, empty
	// question set, threshold outside bounds, and so on).
	ErrValidation = errors.New("validation failed")
)
