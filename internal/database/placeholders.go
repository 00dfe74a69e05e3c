package database

import (
	"strconv"
	"strings"
)

// BindPlaceholders rewrites the @<index> placeholders of commandText into
// SQLite numbered parameters (?<index+1>), so that positional argument i
// always binds to @i no matter where or how often @i appears in the text.
//
// Placeholders inside string literals, quoted identifiers and comments are
// left untouched. The number of placeholders is not checked against the
// number of arguments; that is left to the engine.
func BindPlaceholders(commandText string) string {
	if !strings.Contains(commandText, "@") {
		return commandText
	}

	var sb strings.Builder
	sb.Grow(len(commandText))

	n := len(commandText)
	for i := 0; i < n; {
		if end := skipLiteral(commandText, i); end > i {
			sb.WriteString(commandText[i:end])
			i = end
			continue
		}

		c := commandText[i]
		switch {
		case c == '@' && (i == 0 || !isIdentByte(commandText[i-1])):
			j := i + 1
			for j < n && commandText[j] >= '0' && commandText[j] <= '9' {
				j++
			}
			if j == i+1 || (j < n && isIdentByte(commandText[j])) {
				// @name or @1abc: not an index placeholder
				sb.WriteByte(c)
				i++
				continue
			}
			idx, err := strconv.Atoi(commandText[i+1 : j])
			if err != nil {
				sb.WriteString(commandText[i:j])
				i = j
				continue
			}
			sb.WriteByte('?')
			sb.WriteString(strconv.Itoa(idx + 1))
			i = j
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// skipLiteral returns the index just past the string literal, quoted
// identifier or comment starting at i, or i when none starts there.
// Unterminated tokens run to the end of s.
func skipLiteral(s string, i int) int {
	n := len(s)
	switch c := s[i]; {
	case c == '\'' || c == '"' || c == '`':
		return skipQuoted(s, i, c)
	case c == '[':
		if end := strings.IndexByte(s[i:], ']'); end >= 0 {
			return i + end + 1
		}
		return n
	case c == '-' && i+1 < n && s[i+1] == '-':
		if end := strings.IndexByte(s[i:], '\n'); end >= 0 {
			return i + end
		}
		return n
	case c == '/' && i+1 < n && s[i+1] == '*':
		if end := strings.Index(s[i+2:], "*/"); end >= 0 {
			return i + 2 + end + 2
		}
		return n
	}
	return i
}

// skipQuoted returns the index just past the quoted token starting at
// start. A doubled quote character is an escaped quote.
func skipQuoted(s string, start int, q byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
