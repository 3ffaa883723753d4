package budget

import (
	"strings"
)

const (
	// SegmentPlaceholder replaces a segment that is empty after normalization,
	// so the joined code always keeps ten positions.
	SegmentPlaceholder = "NS"

	// CodeSeparator joins the segments into the analytic code.
	CodeSeparator = "."

	// MaxCodeLength bounds the analytic code. The backing column is a bounded
	// string, so inputs must be shortened by the caller rather than truncated here.
	MaxCodeLength = 180
)

// Segments holds the ten ordered components an analytic code is derived from.
type Segments struct {
	Direction string `json:"direction"`
	Program   string `json:"program"`
	Project   string `json:"project"`
	Agreement string `json:"agreement"`
	OrgUnit   string `json:"org_unit"`
	Action    string `json:"action"`
	Account   string `json:"account"`
	Free1     string `json:"free_1"`
	Free2     string `json:"free_2"`
	Free3     string `json:"free_3"`
}

// ordered returns the segments in the fixed position they occupy in the code.
func (s Segments) ordered() [10]string {
	return [10]string{
		s.Direction,
		s.Program,
		s.Project,
		s.Agreement,
		s.OrgUnit,
		s.Action,
		s.Account,
		s.Free1,
		s.Free2,
		s.Free3,
	}
}

// SynthesizeCode derives the analytic code from the ten ordered segments.
// Each segment is stripped of all whitespace and replaced with
// SegmentPlaceholder when empty. The function is pure: identical segments
// always yield the identical code, which is what makes re-imports idempotent.
// Returns ErrCodeTooLong when the joined code exceeds MaxCodeLength.
func SynthesizeCode(segments Segments) (string, error) {
	ordered := segments.ordered()
	parts := make([]string, 0, len(ordered))
	for _, raw := range ordered {
		parts = append(parts, normalizeSegment(raw))
	}

	code := strings.Join(parts, CodeSeparator)
	if len(code) > MaxCodeLength {
		return "", ErrCodeTooLong{Length: len(code)}
	}

	return code, nil
}

// normalizeSegment trims the segment and removes internal whitespace.
// An empty result becomes the placeholder token.
func normalizeSegment(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return SegmentPlaceholder
	}
	return strings.Join(fields, "")
}
