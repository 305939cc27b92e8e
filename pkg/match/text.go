package match

import (
	"bytes"
	"errors"

	"github.com/src-d/enry/v2"
)

// ErrBinaryContent is returned when text matching is asked to inspect
// binary data. Binary formats need a dedicated matcher.
var ErrBinaryContent = errors.New("content is binary")

// Text matches the query as a literal substring of plain-text content.
type Text struct{}

// Contains implements Matcher.
func (Text) Contains(content []byte, query string) (bool, error) {
	if enry.IsBinary(content) {
		return false, ErrBinaryContent
	}

	return bytes.Contains(content, []byte(query)), nil
}
