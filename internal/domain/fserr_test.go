package domain

import (
	"errors"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyFSError(t *testing.T) {
	tests := []struct {
		name     string
		op       FSOp
		err      error
		wantKind FSErrorKind
		wantMsg  string
	}{
		{
			name:     "missing file on read",
			op:       OpRead,
			err:      fs.ErrNotExist,
			wantKind: KindNotFound,
			wantMsg:  "regenerate your build output",
		},
		{
			name:     "missing directory on scan",
			op:       OpScan,
			err:      fs.ErrNotExist,
			wantKind: KindNotFound,
			wantMsg:  "does not exist; check the path",
		},
		{
			name:     "permission denied on overwrite",
			op:       OpWrite,
			err:      fs.ErrPermission,
			wantKind: KindPermission,
			wantMsg:  "fix the file permissions",
		},
		{
			name:     "scan root is a file",
			op:       OpScan,
			err:      syscall.ENOTDIR,
			wantKind: KindNotDirectory,
			wantMsg:  "is not a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyFSError(tt.op, "dist/app.js", tt.err)

			var fsErr *FSError
			require.ErrorAs(t, err, &fsErr)
			require.Equal(t, tt.wantKind, fsErr.Kind)
			require.Equal(t, tt.op, fsErr.Op)
			require.Contains(t, err.Error(), tt.wantMsg)
			require.Contains(t, err.Error(), "dist/app.js")
		})
	}
}

func TestClassifyFSError_UnrecognizedErrorsPropagateUnchanged(t *testing.T) {
	sentinel := errors.New("disk on fire")

	err := classifyFSError(OpRead, "dist/app.js", sentinel)
	require.Same(t, sentinel, err)

	var fsErr *FSError
	require.False(t, errors.As(err, &fsErr))
}

func TestClassifyFSError_NilIsNil(t *testing.T) {
	require.NoError(t, classifyFSError(OpRead, "dist/app.js", nil))
}

func TestFSError_UnwrapPreservesCause(t *testing.T) {
	err := classifyFSError(OpRead, "dist/app.js", fs.ErrNotExist)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
