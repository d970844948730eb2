package protocol

import "strings"

// Marker phrases recognized by convention in backend replies.
const (
	// MarkerExecutionResult means the backend already executed the code
	// server-side. The panel must not offer a manual re-execute action.
	MarkerExecutionResult = "Execution Result:"
	// MarkerAutoFix means the backend entered an internal retry/fix cycle.
	MarkerAutoFix = "Automatically fixing error"
	// MarkerImprovedSolution marks the reply produced by a fix cycle.
	MarkerImprovedSolution = "Improved Solution:"
)

// Reply is a decoded backend response.
type Reply struct {
	Body     string
	Segments []Segment
	// HasCode reports at least one fenced section.
	HasCode bool
	// Executed reports the MarkerExecutionResult phrase.
	Executed bool
	// Fixing reports an auto-fix marker. It stays active until the next
	// reply replaces it.
	Fixing bool
}

// Decode splits a reply into segments and scans it for marker phrases.
func Decode(body string) Reply {
	segments := Split(body)

	hasCode := false
	for _, seg := range segments {
		if seg.Code {
			hasCode = true
			break
		}
	}

	return Reply{
		Body:     body,
		Segments: segments,
		HasCode:  hasCode,
		Executed: strings.Contains(body, MarkerExecutionResult),
		Fixing: strings.Contains(body, MarkerAutoFix) ||
			strings.Contains(body, MarkerImprovedSolution),
	}
}

// CanOfferExecute reports whether the panel may offer a manual execute
// action for this reply.
func (r Reply) CanOfferExecute() bool {
	return r.HasCode && !r.Executed
}

// LastCode returns the literal text of the reply's last fenced section,
// or "" when the reply carries no code.
func (r Reply) LastCode() string {
	for i := len(r.Segments) - 1; i >= 0; i-- {
		if r.Segments[i].Code {
			return r.Segments[i].Text
		}
	}
	return ""
}
