package naming

import (
	"path/filepath"
	"strings"
)

// ConvertedPath builds the sibling output path for input:
//
//	<dir>/<name><suffix>.<ext>    e.g. /music/track_CONVERTED.aiff
func ConvertedPath(input, suffix string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+suffix+ext)
}

// IsConvertedName reports whether path already carries suffix, i.e. it is a
// leftover or side-by-side output of a previous run.
func IsConvertedName(path, suffix string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), suffix)
}
