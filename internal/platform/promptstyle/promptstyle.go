package promptstyle

import "strings"

const marker = "SIMPLE_EXPLAIN_PROMPT_STYLE_V1"

// ApplySystem prepends the shared guidance block to a system prompt. Mode
// "json" adds the single-object rule. Already styled prompts are returned
// unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou explain topics for Simple Explain readers.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nWrite in the language of the user instructions.")
	b.WriteString("\nDo not add commentary before or after the requested content.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nReturn plain text paragraphs separated by blank lines.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
