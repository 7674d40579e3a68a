package command

// Inline markdown helpers used by generated messages.

func code(s string) string      { return "`" + s + "`" }
func bold(s string) string      { return "**" + s + "**" }
func codeBlock(s string) string { return "```" + s + "```" }

// Truncate shortens s to at most n runes, ending with "..." when cut.
func Truncate(s string, n int) string {
	const omission = "..."
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= len(omission) {
		return omission[:n]
	}
	return string(runes[:n-len(omission)]) + omission
}
