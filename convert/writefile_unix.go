//go:build !windows

package convert

import (
	"io"
	"path/filepath"

	"github.com/google/renameio/v2"
	"go.uber.org/multierr"
)

// createFile atomically replaces name with whatever write produces. Readers
// never observe partially written file.
func createFile(name string, write func(w io.Writer) error) (err error) {
	tmpFile, err := renameio.TempFile(renameio.TempDir(filepath.Dir(name)), name)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tmpFile.Cleanup())
			return
		}
		err = tmpFile.CloseAtomicallyReplace()
	}()

	if err = tmpFile.Chmod(0o644); err != nil {
		return err
	}
	return write(tmpFile)
}
