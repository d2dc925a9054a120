package mcp

const (
	name         = "clipfix"
	instructions = `MCP Server 'clipfix' rewrites text and the system clipboard using an ordered list of regex recipes.

When to use these tools:
- Checking which rewrite, if any, a configured recipe would apply to some text
- Rewriting the user's clipboard in place
- Listing the configured recipes and finding invalid ones

Rules:
1. Recipes are tried in order. Only the FIRST recipe that changes the text is applied; later recipes never see its output.
2. Use 'find_fix' to preview a rewrite. It never touches the clipboard.
3. Use 'rewrite_clipboard' only when the user asks to change their clipboard.
`

	// maxTextLen bounds the text echoed back in tool results.
	maxTextLen = 4096
)

// truncateString truncates a string to maxLen bytes with a marker if needed.
func truncateString(str string, maxLen int) string {
	if len(str) > maxLen {
		return str[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return str
}
