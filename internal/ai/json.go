package ai

import "strings"

// CleanJSONContent strips markdown code fences and leading chatter that
// models sometimes wrap around JSON output.
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Drop chatter that precedes the JSON body.
	if idx := strings.IndexAny(content, "{["); idx > 0 {
		content = content[idx:]
	}

	return strings.TrimSpace(content)
}
