// Package match implements the content-matching capability: given file
// content taken from one commit, decide whether a literal search string
// occurs in it. Matchers are selected by file extension at the boundary so
// the search engine stays format-agnostic.
package match

import (
	"path/filepath"
	"strings"
)

// Matcher tests a literal query against raw file content.
type Matcher interface {
	// Contains reports whether query occurs in content. An error means the
	// content could not be inspected; callers treat it as "not found".
	Contains(content []byte, query string) (bool, error)
}

// workbookExtensions are the spreadsheet formats handled by the workbook
// matcher. Everything else is matched as text.
var workbookExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xltx": {},
	".xltm": {},
}

// ForPath selects the matcher for a file path by extension.
func ForPath(path string) Matcher {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := workbookExtensions[ext]; ok {
		return Workbook{}
	}

	return Text{}
}
