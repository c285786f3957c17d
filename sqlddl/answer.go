package sqlddl

import "strings"

// ExtractFromAnswer returns the SQL part of a tri-part model answer:
// the contents of every ```sql fence joined together. Text without a
// sql fence is returned unchanged, so plain DDL passes straight through.
func ExtractFromAnswer(text string) string {
	const marker = "```"
	var blocks []string
	rest := text
	for {
		start := strings.Index(rest, marker)
		if start < 0 {
			break
		}
		rest = rest[start+len(marker):]
		end := strings.Index(rest, marker)
		if end < 0 {
			break
		}
		inner := rest[:end]
		rest = rest[end+len(marker):]

		nl := strings.IndexByte(inner, '\n')
		if nl < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(inner[:nl]), "sql") {
			blocks = append(blocks, strings.TrimSpace(inner[nl+1:]))
		}
	}
	if len(blocks) == 0 {
		return text
	}
	return strings.Join(blocks, "\n\n")
}
