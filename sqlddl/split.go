package sqlddl

import "strings"

// SplitStatements splits sql on semicolons that are outside quotes,
// parentheses and comments. Comments are removed and empty statements
// dropped.
func SplitStatements(sql string) []string {
	return splitTopLevel(stripComments(sql), ';')
}

// splitTopLevel splits s on sep when it is not nested in parentheses
// or quotes. Fragments are trimmed; empty fragments are dropped.
func splitTopLevel(s string, sep byte) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				if frag := strings.TrimSpace(s[start:i]); frag != "" {
					out = append(out, frag)
				}
				start = i + 1
			}
		}
	}
	if frag := strings.TrimSpace(s[start:]); frag != "" {
		out = append(out, frag)
	}
	return out
}

// stripComments removes -- line comments and /* */ block comments that
// are not inside string literals.
func stripComments(sql string) string {
	var (
		sb    strings.Builder
		quote byte
	)
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if quote != 0 {
			sb.WriteByte(c)
			if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '\'' || c == '"' || c == '`':
			quote = c
			sb.WriteByte(c)
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			sb.WriteByte('\n')
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				return sb.String()
			}
			i += end + 3
			sb.WriteByte(' ')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
