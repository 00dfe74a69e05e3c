package main

import "strconv"

// parseArgs turns command line arguments into statement parameters.
// Arguments in canonical integer form become int64; everything else,
// including "007" and "+1", stays text.
func parseArgs(args []string) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if n, err := strconv.ParseInt(a, 10, 64); err == nil && strconv.FormatInt(n, 10) == a {
			out[i] = n
			continue
		}
		out[i] = a
	}
	return out
}
