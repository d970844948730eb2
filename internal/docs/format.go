package docs

import (
	"fmt"
	"sort"
	"strings"
)

// FormatContext renders retrieval results as a markdown block suitable for
// injection into the code-generation prompt.
func (r *Results) FormatContext() string {
	if r.Empty() {
		return ""
	}

	var b strings.Builder
	b.WriteString("CAD API DOCUMENTATION:\n\n")

	for _, name := range sortedTopicNames(r.Topics) {
		topic := r.Topics[name]
		fmt.Fprintf(&b, "## %s\n", name)
		if topic.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", topic.Description)
		}

		for _, method := range sortedMethodNames(topic.Methods) {
			md := topic.Methods[method]
			fmt.Fprintf(&b, "### %s\n", method)
			fmt.Fprintf(&b, "Description: %s\n", md.Description)
			fmt.Fprintf(&b, "Parameters: %s\n", md.Parameters)
			fmt.Fprintf(&b, "Returns: %s\n", md.Returns)
			if md.Example != "" {
				fmt.Fprintf(&b, "Example: %s\n", md.Example)
			}
			b.WriteString("\n")
		}

		if len(topic.CommonErrors) > 0 {
			b.WriteString("### Common Errors:\n")
			for _, e := range topic.CommonErrors {
				fmt.Fprintf(&b, "- %s\n", e)
			}
			b.WriteString("\n")
		}

		if len(topic.BestPractices) > 0 {
			b.WriteString("### Best Practices:\n")
			for _, p := range topic.BestPractices {
				fmt.Fprintf(&b, "- %s\n", p)
			}
			b.WriteString("\n")
		}
	}

	if len(r.Errors) > 0 {
		b.WriteString("## COMMON API ERRORS TO AVOID:\n")
		for _, ec := range r.Errors {
			fmt.Fprintf(&b, "### %s\n", ec.Code)
			fmt.Fprintf(&b, "Description: %s\n", ec.Message)
			fmt.Fprintf(&b, "Context: %s\n", ec.Context)
			fmt.Fprintf(&b, "Solution: %s\n\n", ec.Solution)
		}
	}

	if len(r.Practices) > 0 {
		b.WriteString("## BEST PRACTICES:\n")
		for _, cp := range r.Practices {
			fmt.Fprintf(&b, "### %s\n", cp.Title)
			fmt.Fprintf(&b, "%s\n", cp.Description)
			if cp.Example != "" {
				fmt.Fprintf(&b, "Example:\n```python\n%s\n```\n\n", cp.Example)
			}
		}
	}

	return b.String()
}

func sortedTopicNames(topics map[string]APITopic) []string {
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedMethodNames(methods map[string]MethodDoc) []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedErrorCodes(codes map[string]ErrorCode) []ErrorCode {
	keys := make([]string, 0, len(codes))
	for k := range codes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ErrorCode, 0, len(keys))
	for _, k := range keys {
		out = append(out, codes[k])
	}
	return out
}

func sortedPatterns(patterns map[string]CodePattern) []CodePattern {
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]CodePattern, 0, len(keys))
	for _, k := range keys {
		out = append(out, patterns[k])
	}
	return out
}
