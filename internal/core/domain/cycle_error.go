package domain

import (
	"fmt"
	"strings"
)

// Span points at the source location a query frame was raised for. The zero
// value means the location is unknown.
type Span struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// String renders the span as file:line:column.
func (s Span) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Frame describes one query invocation in a cycle report: what the query was
// doing and where it was raised.
type Frame struct {
	Query InternedString
	Span  Span
}

// CycleError reports a dependency cycle between in-flight queries. Cycle
// lists the participating frames in waits-on order: Cycle[0] waits on
// Cycle[1], and the last frame waits on Cycle[0] again. Usage, when present,
// is the query that entered the cycle from outside.
//
// A CycleError is recoverable by construction: the engine hands it to the
// query kind's cycle handler instead of blocking.
type CycleError struct {
	Cycle []Frame
	Usage *Frame
}

// Error implements the error interface with a single-line summary.
func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "query cycle detected"
	}
	return fmt.Sprintf("cycle detected when %s", e.Cycle[0].Query.String())
}

// Report renders the full multi-line cycle description, one line per
// participating query, ending with the re-entry that closed the cycle.
func (e *CycleError) Report() string {
	var b strings.Builder

	if len(e.Cycle) == 0 {
		b.WriteString("query cycle detected\n")
		return b.String()
	}

	fmt.Fprintf(&b, "cycle detected when %s\n", e.Cycle[0].Query.String())
	if !e.Cycle[0].Span.IsZero() {
		fmt.Fprintf(&b, "  --> %s\n", e.Cycle[0].Span)
	}

	for _, frame := range e.Cycle[1:] {
		fmt.Fprintf(&b, "...which requires %s\n", frame.Query.String())
		if !frame.Span.IsZero() {
			fmt.Fprintf(&b, "  --> %s\n", frame.Span)
		}
	}

	fmt.Fprintf(&b, "...which again requires %s, completing the cycle\n", e.Cycle[0].Query.String())

	if e.Usage != nil {
		fmt.Fprintf(&b, "cycle used when %s\n", e.Usage.Query.String())
	}

	return b.String()
}
