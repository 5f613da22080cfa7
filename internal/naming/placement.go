package naming

import (
	"errors"
	"fmt"
)

// Task is the placement state of one candidate file.
type Task struct {
	InputPath    string
	OutputPath   string // Converted sibling, see ConvertedPath.
	InPlace      bool
	Force        bool
	ShortenPaths bool
}

// PlacementError reports a failed filesystem step. The original file is
// still present when it is returned.
type PlacementError struct {
	Op   string
	Path string
	Err  error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("place %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// Place moves the converted output to its final location and returns it.
// A *BackupLeftError comes with the final path: the file was placed and only
// a hidden backup of the original remains.
//
//	not converted           -> InputPath, nothing touched
//	converted, in place     -> OutputPath replaces InputPath
//	converted, side-by-side -> OutputPath stays
func Place(t Task, converted bool) (string, error) {
	switch {
	case !converted:
		return t.InputPath, nil
	case t.InPlace:
		if err := ReplaceFile(t.OutputPath, t.InputPath); err != nil {
			var left *BackupLeftError
			if errors.As(err, &left) {
				return t.InputPath, err
			}
			return "", err
		}
		return t.InputPath, nil
	default:
		return t.OutputPath, nil
	}
}
