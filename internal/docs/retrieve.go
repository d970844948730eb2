package docs

import "strings"

// keyTerms are the API vocabulary words worth matching a free-text query
// against. Matching is intentionally simple substring work: the index is
// small and curated, and exact-key lookups remain the primary contract.
var keyTerms = []string{
	"extrude", "revolve", "sketch", "profile", "plane", "feature",
	"component", "body", "joint", "assembly", "parameter",
	"pattern", "circular", "rectangular", "mirror", "fillet",
	"chamfer", "hole", "thread", "construction", "offset", "loft",
}

// Results holds the documentation sections relevant to one query.
type Results struct {
	Topics    map[string]APITopic
	Errors    []ErrorCode
	Practices []CodePattern
}

// Empty reports whether nothing matched.
func (r *Results) Empty() bool {
	return len(r.Topics) == 0 && len(r.Errors) == 0 && len(r.Practices) == 0
}

// Relevant collects the topics, error codes and patterns related to a user
// query or code fragment.
func (ix *Index) Relevant(query string) *Results {
	terms := extractKeyTerms(query)

	res := &Results{Topics: map[string]APITopic{}}

	for _, term := range terms {
		for name, topic := range ix.APITopics {
			if strings.Contains(strings.ToLower(name), term) {
				res.Topics[name] = topic
				continue
			}
			for method := range topic.Methods {
				if strings.Contains(strings.ToLower(method), term) {
					res.Topics[name] = topic
					break
				}
			}
		}
	}

	for _, ec := range sortedErrorCodes(ix.ErrorCodes) {
		ctx := strings.ToLower(ec.Context)
		for _, term := range terms {
			if strings.Contains(ctx, term) {
				res.Errors = append(res.Errors, ec)
				break
			}
		}
	}

	for _, cp := range sortedPatterns(ix.CodePatterns) {
		desc := strings.ToLower(cp.Description)
		for _, term := range terms {
			if strings.Contains(desc, term) {
				res.Practices = append(res.Practices, cp)
				break
			}
		}
	}

	return res
}

// ErrorSolution matches a raw error message against the known error codes.
// A miss returns ok=false, never an error.
func (ix *Index) ErrorSolution(message string) (ErrorCode, bool) {
	msg := strings.ToLower(message)
	for _, ec := range sortedErrorCodes(ix.ErrorCodes) {
		if ec.Code != "" && strings.Contains(msg, strings.ToLower(ec.Code)) {
			return ec, true
		}
		if ec.Message != "" && strings.Contains(msg, strings.ToLower(ec.Message)) {
			return ec, true
		}
	}
	return ErrorCode{}, false
}

func extractKeyTerms(query string) []string {
	q := strings.ToLower(query)
	var found []string
	for _, term := range keyTerms {
		if strings.Contains(q, term) {
			found = append(found, term)
		}
	}
	return found
}
