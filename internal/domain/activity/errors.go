package activity

import (
	"errors"
	"fmt"
)

// Kind discriminates the fatal failure modes of metadata extraction.
type Kind string

// Extraction failure kinds. Each one gates the import: an activity that
// trips any of these cannot be stored.
const (
	KindFileTooLarge           Kind = "file_too_large"
	KindMalformedInput         Kind = "malformed_input"
	KindNoActivityElement      Kind = "no_activity_element"
	KindMissingIdentifier      Kind = "missing_identifier"
	KindMissingReportingOrg    Kind = "missing_reporting_org"
	KindMissingReportingOrgRef Kind = "missing_reporting_org_ref"
)

// ParseError is the single error type surfaced by ExtractMeta. Field names
// the offending element or attribute so a person curating a bulk import
// knows what to fix.
type ParseError struct {
	Kind  Kind
	Field string
	cause error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("activity parse failed: %s", e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %s)", e.Field)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.cause }

// KindOf returns the extraction failure kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
