//go:build windows

package convert

import (
	"io"
	"os"

	"go.uber.org/multierr"
)

// createFile writes name with whatever write produces. There is no atomic
// replace on windows, partially written file is removed on error.
func createFile(name string, write func(w io.Writer) error) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err != nil {
			_ = os.Remove(name)
		}
	}()
	return write(f)
}
