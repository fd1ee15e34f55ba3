// Package domain contains the source-map pairing, hashing and injection
// logic plus the upload workflow that the cmd layer drives.
package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	m "github.com/symup/symup/internal/model"
)

// FSErrorKind is the closed set of filesystem failures we translate into
// remediation-oriented messages. Anything else propagates untouched.
type FSErrorKind int

const (
	// KindNotFound covers missing files and directories.
	KindNotFound FSErrorKind = iota
	// KindPermission covers permission-denied failures.
	KindPermission
	// KindNotDirectory covers a scan root that is a regular file.
	KindNotDirectory
)

// FSOp names the operation that failed, so the same kind renders a
// different message for reads versus writes versus directory scans.
type FSOp string

const (
	// OpRead is a failed read of a script or map file.
	OpRead FSOp = "read"
	// OpWrite is a failed overwrite of a script file.
	OpWrite FSOp = "overwrite"
	// OpScan is a failed directory enumeration.
	OpScan FSOp = "scan"
)

// FSError is a filesystem failure tagged with operation context.
type FSError struct {
	Op   FSOp
	Kind FSErrorKind
	Path m.Path
	Err  error
}

func (e *FSError) Error() string {
	switch e.Kind {
	case KindNotFound:
		if e.Op == OpScan {
			return fmt.Sprintf("directory %s does not exist; check the path or re-run your build to produce it", e.Path)
		}

		return fmt.Sprintf("cannot %s %s: file does not exist; regenerate your build output and try again", e.Op, e.Path)
	case KindPermission:
		return fmt.Sprintf("cannot %s %s: permission denied; fix the file permissions and try again", e.Op, e.Path)
	case KindNotDirectory:
		return fmt.Sprintf("%s is not a directory; pass the build output directory instead", e.Path)
	}

	return e.Err.Error()
}

func (e *FSError) Unwrap() error {
	return e.Err
}

// classifyFSError wraps recognized OS error codes in an FSError carrying
// the operation context. Unrecognized errors are returned unchanged.
func classifyFSError(op FSOp, path m.Path, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &FSError{Op: op, Kind: KindNotFound, Path: path, Err: err}
	case errors.Is(err, fs.ErrPermission):
		return &FSError{Op: op, Kind: KindPermission, Path: path, Err: err}
	case errors.Is(err, syscall.ENOTDIR):
		return &FSError{Op: op, Kind: KindNotDirectory, Path: path, Err: err}
	}

	return err
}
