// Package protocol defines the textual contract between the chat panel and
// the bridge: the arg1/arg2 request payload, the fenced-code reply format,
// and the marker phrases the panel reacts to.
package protocol

import "strings"

const fence = "```"

// Segment is one piece of a decoded reply. Narrative segments are rendered
// as prose; code segments are displayed verbatim.
type Segment struct {
	Code     bool
	Language string
	Text     string
}

// Split breaks a reply on triple-backtick fences. Text outside fences is
// narrative, text inside is source code, untouched. A language tag on the
// opening fence is captured but stripped from the code text. An unterminated
// fence runs to the end of the reply.
func Split(reply string) []Segment {
	parts := strings.Split(reply, fence)
	segments := make([]Segment, 0, len(parts))

	for i, part := range parts {
		if i%2 == 0 {
			if part == "" {
				continue
			}
			segments = append(segments, Segment{Text: part})
			continue
		}

		lang, text := splitLanguageTag(part)
		segments = append(segments, Segment{Code: true, Language: lang, Text: text})
	}

	return segments
}

// LastCodeBlock returns the literal text of the last fenced section in a
// reply, or "" when the reply carries no code. This is the value carried
// forward as arg2 on the next request.
func LastCodeBlock(reply string) string {
	segments := Split(reply)
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Code {
			return segments[i].Text
		}
	}
	return ""
}

// ExtractCode pulls the code to execute out of a reply: the first
// python-tagged fence if one exists, otherwise the first fence of any kind.
// Surrounding whitespace is trimmed; the body is otherwise untouched.
func ExtractCode(reply string) string {
	if idx := strings.Index(reply, fence+"python"); idx >= 0 {
		rest := reply[idx+len(fence+"python"):]
		if end := strings.Index(rest, fence); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	segments := Split(reply)
	for _, seg := range segments {
		if seg.Code {
			return strings.TrimSpace(seg.Text)
		}
	}
	return ""
}

// splitLanguageTag separates an optional language tag on the first line of a
// fenced section from the code body. Only a single bare word right after the
// opening fence counts as a tag.
func splitLanguageTag(body string) (lang, text string) {
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return "", body
	}
	head := strings.TrimSpace(body[:nl])
	if head == "" || strings.ContainsAny(head, " \t") {
		return "", body
	}
	return head, body[nl+1:]
}
