package database

import "strings"

// SplitStatements cuts script at every ; that is not inside a string
// literal, quoted identifier or comment. Statements are trimmed and empty
// ones are dropped.
func SplitStatements(script string) []string {
	var (
		out   []string
		start int
	)
	flush := func(end int) {
		if s := strings.TrimSpace(script[start:end]); s != "" {
			out = append(out, s)
		}
	}

	for i := 0; i < len(script); {
		if end := skipLiteral(script, i); end > i {
			i = end
			continue
		}
		if script[i] == ';' {
			flush(i)
			start = i + 1
		}
		i++
	}
	if start < len(script) {
		flush(len(script))
	}
	return out
}
