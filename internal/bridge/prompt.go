package bridge

import (
	"fmt"
	"strings"

	"cadchat/internal/docs"
	"cadchat/internal/protocol"
)

// systemPrompt defines the generation contract: complete, directly
// executable scripts, fenced with a python tag.
const systemPrompt = `You are a CAD API expert. Generate executable Python code that creates 3D models using the host CAD API.

IMPORTANT: All code you provide MUST be executable directly within the host application.

Follow these rules when writing code:

1. Always place ALL code inside a run(context) function.
2. ALWAYS use proper error handling with try/except blocks around ALL code.
3. ALWAYS initialize the application, user interface, active design and root component at the top of EVERY script.
4. Properly scope variables. Variables defined inside event handlers must be accessed as nonlocal or global.
5. For object creation, get the container first, create an input object, set its properties, then create the feature from the input.
6. When specifying dimensions, use the API value-input helpers for reals and unit strings.
7. ALWAYS return the complete code structure - imports, function definitions, error handling and the actual implementation.

Format code with ` + "```python" + ` tags. Your code will be automatically executed, so make sure it works without modifications.`

// currentIndex resolves the served snapshot, tolerating a nil store.
func currentIndex(store *docs.Store) *docs.Index {
	if store == nil {
		return nil
	}
	return store.Current()
}

// buildPrompt assembles the user prompt for one chat turn: the (possibly
// wrapped) user text, the prior code block when the user is iterating on it,
// and the relevant documentation context.
func buildPrompt(p protocol.ChatPayload, index *docs.Index) string {
	var b strings.Builder

	message := p.Arg1
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "code") && !strings.Contains(lower, "script") {
		fmt.Fprintf(&b, `Create CAD Python code that will accomplish the following task:

%s

IMPORTANT: Your code MUST be a complete, executable script. Don't omit any necessary code sections.
Include proper error handling, and follow the API best practices exactly as specified.
`, message)
	} else {
		b.WriteString(message)
	}

	if p.Arg2 != "" {
		fmt.Fprintf(&b, "\n\nThe most recent generated code was:\n```python\n%s\n```\n", p.Arg2)
	}

	if index != nil {
		query := p.Arg1
		if p.Arg2 != "" {
			query += " " + p.Arg2
		}
		if ctx := index.Relevant(query).FormatContext(); ctx != "" {
			b.WriteString("\n\n")
			b.WriteString(ctx)
		}
	}

	return b.String()
}
