//go:build cgo

package sqlite

import (
	"errors"

	mattn "github.com/mattn/go-sqlite3"
)

func init() {
	codeExtractors = append(codeExtractors, mattnCode)
}

func mattnCode(err error) (int, bool) {
	var se mattn.Error
	if errors.As(err, &se) {
		return int(se.ExtendedCode), true
	}
	return 0, false
}
