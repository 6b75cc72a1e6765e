// Package activity extracts the required identifying metadata from one
// activity report.
package activity

import (
	"strings"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/narrative"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/rawtree"
)

// Element and attribute names from the activity-report standard.
const (
	elemActivities   = "iati-activities"
	elemActivity     = "iati-activity"
	elemIdentifier   = "iati-identifier"
	elemReportingOrg = "reporting-org"
	attrOrgRef       = "ref"
	attrLastUpdated  = "last-updated-datetime"
)

// DefaultMaxBytes is the size ceiling applied before any normalization work.
const DefaultMaxBytes = 50 << 20 // 50 MiB

// Validation limits for user-supplied identifying values.
const (
	maxIdentifierLen = 255
	maxOrgRefLen     = 100
)

// Meta is the minimal required-fields record extracted from one activity
// subtree. It is a value handed onward to storage; empty string means the
// optional field was absent.
type Meta struct {
	IATIIdentifier   string
	ReportingOrgRef  string
	ReportingOrgName string
	LastUpdated      string // ISO-8601 text, deliberately unparsed here
}

// Option applies a configuration option to extraction.
type Option func(*extractor)

// WithMaxBytes overrides the input size ceiling.
func WithMaxBytes(n int) Option {
	return func(e *extractor) {
		if n > 0 {
			e.maxBytes = n
		}
	}
}

// WithPreferredLang sets the language preferred for the reporting-org name.
func WithPreferredLang(lang string) Option {
	return func(e *extractor) {
		if lang != "" {
			e.preferredLang = lang
		}
	}
}

type extractor struct {
	maxBytes      int
	preferredLang string
}

// ExtractMeta normalizes raw report text and extracts the activity's
// identifying metadata. It fails fast with a *ParseError and never guesses
// missing values. On success IATIIdentifier and ReportingOrgRef are
// non-empty.
func ExtractMeta(raw string, opts ...Option) (Meta, error) {
	e := &extractor{
		maxBytes:      DefaultMaxBytes,
		preferredLang: narrative.DefaultLang,
	}
	for _, opt := range opts {
		opt(e)
	}

	if len(raw) > e.maxBytes {
		return Meta{}, &ParseError{Kind: KindFileTooLarge}
	}

	root, err := rawtree.Parse(raw)
	if err != nil {
		return Meta{}, &ParseError{Kind: KindMalformedInput, cause: err}
	}

	act := locateActivity(root)
	if act == nil {
		return Meta{}, &ParseError{Kind: KindNoActivityElement, Field: elemActivity}
	}

	idNode := act.First(elemIdentifier)
	if idNode == nil || idNode.Text == "" {
		return Meta{}, &ParseError{Kind: KindMissingIdentifier, Field: elemIdentifier}
	}

	org := act.First(elemReportingOrg)
	if org == nil {
		return Meta{}, &ParseError{Kind: KindMissingReportingOrg, Field: elemReportingOrg}
	}
	ref, _ := org.Attr(attrOrgRef)
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Meta{}, &ParseError{Kind: KindMissingReportingOrgRef, Field: elemReportingOrg + "/@" + attrOrgRef}
	}

	meta := Meta{
		IATIIdentifier:  idNode.Text,
		ReportingOrgRef: ref,
	}
	if name, ok := narrative.Resolve(org, e.preferredLang); ok {
		meta.ReportingOrgName = name
	}
	if updated, ok := act.Attr(attrLastUpdated); ok {
		meta.LastUpdated = strings.TrimSpace(updated)
	}
	return meta, nil
}

// locateActivity accepts either a bare activity element or a collection
// wrapping one or more. With a collection the first activity is used;
// callers needing every activity go through CountActivities and a separate
// multi-activity path.
func locateActivity(root *rawtree.Node) *rawtree.Node {
	if root == nil {
		return nil
	}
	switch root.Name {
	case elemActivity:
		return root
	case elemActivities:
		return root.First(elemActivity)
	default:
		return nil
	}
}

// CountActivities reports how many activity elements the document carries,
// so callers can warn before a first-activity-only extraction. Fails only
// on malformed markup.
func CountActivities(raw string) (int, error) {
	root, err := rawtree.Parse(raw)
	if err != nil {
		return 0, &ParseError{Kind: KindMalformedInput, cause: err}
	}
	switch root.Name {
	case elemActivity:
		return 1, nil
	case elemActivities:
		return len(root.All(elemActivity)), nil
	default:
		return 0, nil
	}
}

// ValidIATIIdentifier reports whether s is acceptable as an activity
// identifier: non-empty, bounded, and free of markup-special characters.
func ValidIATIIdentifier(s string) bool {
	return validToken(s, maxIdentifierLen)
}

// ValidOrgRef reports whether s is acceptable as an organization reference.
func ValidOrgRef(s string) bool {
	return validToken(s, maxOrgRefLen)
}

func validToken(s string, maxLen int) bool {
	if s == "" || len(s) > maxLen {
		return false
	}
	return !strings.ContainsAny(s, "<>")
}
