package legaldoc

import (
	"fmt"
	"strings"
)

// StructuralError reports malformed or grammar-violating input during
// document construction. A build that fails with a StructuralError publishes
// no document.
type StructuralError struct {
	// Record is the zero-based index of the offending input record, or -1
	// when the error is not tied to a single record (e.g. empty input).
	Record int

	// Reason describes what was wrong.
	Reason string
}

func (e *StructuralError) Error() string {
	if e.Record < 0 {
		return fmt.Sprintf("structural error: %s", e.Reason)
	}
	return fmt.Sprintf("structural error at record %d: %s", e.Record, e.Reason)
}

// structuralErrorf builds a StructuralError for the given record index.
func structuralErrorf(record int, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Record: record, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a well-formed lookup that resolved to nothing: the
// requested citation path does not exist in the document. It is recoverable;
// the caller decides the fallback.
type NotFoundError struct {
	// Path is the citation path that was requested.
	Path []string

	// Segment is the first path segment that failed to match.
	Segment string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %q has no match for segment %q", strings.Join(e.Path, ", "), e.Segment)
}
