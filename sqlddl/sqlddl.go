// Package sqlddl is a lightweight, best-effort scanner for SQL DDL.
//
// It does not validate SQL. It splits text into statements, keeps the
// CREATE TABLE ones, and returns each table's column definitions as raw
// text fragments (types and constraints stay embedded in the fragment).
// Anything it cannot recognise is skipped silently.
package sqlddl

import (
	"strings"
	"unicode"
)

// Tables maps table names to raw column fragments, remembering the
// order in which tables were first seen.
type Tables struct {
	Names   []string
	Columns map[string][]string
}

// Len returns the number of tables.
func (t Tables) Len() int { return len(t.Names) }

func (t *Tables) add(name string, cols []string) {
	if t.Columns == nil {
		t.Columns = make(map[string][]string)
	}
	if _, seen := t.Columns[name]; !seen {
		t.Names = append(t.Names, name)
	}
	t.Columns[name] = cols
}

// tableModifiers may appear between CREATE and TABLE.
var tableModifiers = map[string]bool{
	"OR": true, "REPLACE": true, "TEMP": true, "TEMPORARY": true,
	"UNLOGGED": true, "GLOBAL": true, "LOCAL": true,
}

// ExtractTables returns the tables defined by the CREATE TABLE
// statements in sql. A table redefined later in the input keeps its
// first position and its last column list.
func ExtractTables(sql string) Tables {
	var out Tables
	for _, stmt := range SplitStatements(sql) {
		name, cols, ok := parseCreateTable(stmt)
		if !ok {
			continue
		}
		out.add(name, cols)
	}
	return out
}

func parseCreateTable(stmt string) (name string, cols []string, ok bool) {
	s := &scanner{src: stmt}
	if !strings.EqualFold(s.word(), "CREATE") {
		return "", nil, false
	}

	kw := strings.ToUpper(s.word())
	for tableModifiers[kw] {
		kw = strings.ToUpper(s.word())
	}
	if kw != "TABLE" {
		return "", nil, false
	}

	save := s.pos
	if strings.EqualFold(s.word(), "IF") && strings.EqualFold(s.word(), "NOT") && strings.EqualFold(s.word(), "EXISTS") {
		save = s.pos
	}
	s.pos = save

	name = s.identifier()
	if name == "" {
		return "", nil, false
	}

	body, found := s.parenthesized()
	if !found {
		// CREATE TABLE ... AS SELECT: a table, but no column list.
		return name, nil, true
	}
	for _, frag := range splitTopLevel(body, ',') {
		frag = strings.Join(strings.Fields(frag), " ")
		if frag != "" {
			cols = append(cols, frag)
		}
	}
	return name, cols, true
}

// scanner walks a single statement.
type scanner struct {
	src string
	pos int
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && unicode.IsSpace(rune(s.src[s.pos])) {
		s.pos++
	}
}

// word reads a bare keyword made of letters, digits and underscores.
func (s *scanner) word() string {
	s.skipSpace()
	start := s.pos
	for s.pos < len(s.src) && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// identifier reads a possibly quoted, possibly schema-qualified name
// and returns it without quotes.
func (s *scanner) identifier() string {
	var parts []string
	for {
		s.skipSpace()
		if s.pos >= len(s.src) {
			break
		}
		var part string
		switch c := s.src[s.pos]; c {
		case '"', '`', '[':
			closing := c
			if c == '[' {
				closing = ']'
			}
			var ok bool
			if part, ok = s.quoted(closing); !ok {
				return ""
			}
		default:
			part = s.word()
		}
		if part == "" {
			break
		}
		parts = append(parts, part)
		if s.pos < len(s.src) && s.src[s.pos] == '.' {
			s.pos++
			continue
		}
		break
	}
	return strings.Join(parts, ".")
}

// quoted reads a quoted name starting at the opening quote. A doubled
// closing quote stands for one literal quote character.
func (s *scanner) quoted(closing byte) (string, bool) {
	var sb strings.Builder
	for i := s.pos + 1; i < len(s.src); i++ {
		c := s.src[i]
		if c != closing {
			sb.WriteByte(c)
			continue
		}
		if i+1 < len(s.src) && s.src[i+1] == closing {
			sb.WriteByte(c)
			i++
			continue
		}
		s.pos = i + 1
		return sb.String(), true
	}
	return "", false
}

// parenthesized returns the content of the next balanced (...) group,
// which must be the next significant character.
func (s *scanner) parenthesized() (string, bool) {
	s.skipSpace()
	if s.pos >= len(s.src) || s.src[s.pos] != '(' {
		return "", false
	}
	depth := 0
	var quote byte
	for i := s.pos; i < len(s.src); i++ {
		c := s.src[i]
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
			depth--
			if depth == 0 {
				body := s.src[s.pos+1 : i]
				s.pos = i + 1
				return body, true
			}
		}
	}
	return "", false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}
