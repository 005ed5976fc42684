package enrichment

import "strings"

// ExtractJSON pulls the first brace-delimited JSON object out of a free-form
// model reply: a greedy match from the first '{' to the last '}'. Returns
// false when the reply contains no such span.
func ExtractJSON(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return reply[start : end+1], true
}
