package naming

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ShortenFilename computes a shorter path for path when it is longer than
// maxLen characters. It keeps the trailing
//
//	maxLen - len(ext) - len(dir + separator)
//
// characters of the base name, and reports false when the path already
// fits or the kept part would be shorter than minBase characters. Lengths
// count runes.
func ShortenFilename(path string, maxLen, minBase int) (string, bool) {
	if utf8.RuneCountInString(path) <= maxLen {
		return path, false
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := []rune(strings.TrimSuffix(base, ext))

	dirLen := utf8.RuneCountInString(dir)
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dirLen++
	}
	keep := maxLen - utf8.RuneCountInString(ext) - dirLen
	if keep < minBase || keep >= len(stem) {
		return path, false
	}
	return filepath.Join(dir, string(stem[len(stem)-keep:])+ext), true
}

// Shorten renames path to its shortened form when one exists and the target
// is free. It returns the final path.
func Shorten(path string, maxLen, minBase int) (string, error) {
	short, ok := ShortenFilename(path, maxLen, minBase)
	if !ok {
		return path, nil
	}
	if _, err := os.Lstat(short); err == nil {
		return path, nil
	}
	if err := rename(path, short); err != nil {
		return path, &PlacementError{Op: "shorten filename", Path: path, Err: err}
	}
	return short, nil
}
