package naming

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// rename and remove are swapped in tests to simulate filesystem failures.
var (
	rename = os.Rename
	remove = os.Remove
)

// BackupLeftError reports that dst was replaced but its backup could not be
// removed. The replacement itself succeeded.
type BackupLeftError struct {
	Path   string
	Backup string
	Err    error
}

func (e *BackupLeftError) Error() string {
	return fmt.Sprintf("replaced %s but could not remove backup %s: %v", e.Path, e.Backup, e.Err)
}

func (e *BackupLeftError) Unwrap() error { return e.Err }

// ReplaceFile moves src over dst. It first tries a single rename, which
// replaces dst atomically on POSIX. If that fails, dst is moved to a
// uniquely named backup, src is renamed to dst and the backup is removed;
// on failure the backup is restored, so dst is never lost. A backup that
// cannot be removed is reported as *BackupLeftError.
func ReplaceFile(src, dst string) error {
	if err := rename(src, dst); err == nil {
		return nil
	}

	backup := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+uuid.NewString()+".bak")
	if err := rename(dst, backup); err != nil {
		return &PlacementError{Op: "backup original", Path: dst, Err: err}
	}
	if err := rename(src, dst); err != nil {
		if rerr := rename(backup, dst); rerr != nil {
			return &PlacementError{Op: "restore original from " + backup, Path: dst, Err: errors.Join(err, rerr)}
		}
		return &PlacementError{Op: "replace original", Path: dst, Err: err}
	}
	if err := remove(backup); err != nil {
		return &BackupLeftError{Path: dst, Backup: backup, Err: err}
	}
	return nil
}
