// Package docs holds the static CAD API documentation index used to ground
// code generation in known API behavior. The index is built offline by
// cmd/docsgen, loaded read-only at startup, and never mutated afterwards, so
// concurrent reads need no locking.
package docs

import "time"

// MethodDoc documents a single API method.
type MethodDoc struct {
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
	Returns     string `json:"returns"`
	Example     string `json:"example"`
}

// APITopic documents a feature category of the CAD API.
type APITopic struct {
	Description   string               `json:"description"`
	Methods       map[string]MethodDoc `json:"methods"`
	CommonErrors  []string             `json:"common_errors"`
	BestPractices []string             `json:"best_practices"`
}

// ErrorCode documents a known API error and how to get out of it.
type ErrorCode struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Context  string `json:"context"`
	Solution string `json:"solution"`
}

// CodePattern is a reusable example snippet with a short explanation.
type CodePattern struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Index is the full documentation snapshot. All lookups are exact-key and
// case-sensitive; entries reference each other by key only, never by pointer.
type Index struct {
	APITopics    map[string]APITopic    `json:"api_topics"`
	ErrorCodes   map[string]ErrorCode   `json:"error_codes"`
	CodePatterns map[string]CodePattern `json:"code_patterns"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// Lookup returns the topic for an exact key. A miss is not an error.
func (ix *Index) Lookup(topic string) (APITopic, bool) {
	t, ok := ix.APITopics[topic]
	return t, ok
}

// LookupError returns the error record for an exact symbolic code name.
func (ix *Index) LookupError(code string) (ErrorCode, bool) {
	e, ok := ix.ErrorCodes[code]
	return e, ok
}

// LookupPattern returns the code pattern for an exact pattern name.
func (ix *Index) LookupPattern(name string) (CodePattern, bool) {
	p, ok := ix.CodePatterns[name]
	return p, ok
}

// Counts returns the number of entries per section.
func (ix *Index) Counts() (topics, errorCodes, patterns int) {
	return len(ix.APITopics), len(ix.ErrorCodes), len(ix.CodePatterns)
}
