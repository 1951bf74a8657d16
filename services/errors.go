package services

import "errors"

// Failure taxonomy shared by the journal services. Controllers translate
// these into HTTP statuses with errors.Is.
var (
	// ErrInvalidRange is returned when a date range has from > to.
	ErrInvalidRange = errors.New("invalid date range")

	// ErrEditWindowClosed is returned for writes against a lesson dated
	// today or later, or a cancelled lesson. Records open for editing
	// only once the lesson date is in the past.
	ErrEditWindowClosed = errors.New("edit window closed")

	// ErrForbidden is returned when a teacher writes to a lesson that is
	// not theirs.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidGrade is returned for grades outside the configured scale.
	ErrInvalidGrade = errors.New("invalid grade")

	// ErrInvalidStatus is returned for a manual write carrying a status
	// outside present, absent and excused.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrNotFound is returned for unknown entities.
	ErrNotFound = errors.New("not found")

	// ErrNoActiveSemester is returned by operations that need the single
	// active semester when none is flagged.
	ErrNoActiveSemester = errors.New("no active semester")

	// ErrConflict is returned when deleting an entity that is still
	// referenced by templates, instances or records.
	ErrConflict = errors.New("conflict")
)
