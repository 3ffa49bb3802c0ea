// Package bundle packs generated user styles into a single zip archive.
package bundle

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"
)

// Entry is a single file stored in the bundle.
type Entry struct {
	Name string
	Data []byte
}

// Generate writes zip archive with entries to out. Archive is assembled in
// workDir first. When fixZip is requested the archive is rewritten without
// data descriptors, some importers cannot handle them.
func Generate(ctx context.Context, entries []Entry, out io.Writer, workDir string, modified time.Time, fixZip bool, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Debug("Generating bundle", zap.Int("entries", len(entries)), zap.Bool("fix_zip", fixZip))

	f, err := os.CreateTemp(workDir, "bundle-*.zip")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	// clean temporary file
	defer os.Remove(f.Name())
	defer f.Close()

	if err := Write(ctx, f, entries, modified); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}

	if fixZip {
		return copyZipWithoutDataDescriptors(f.Name(), out)
	}
	return copyFile(f.Name(), out)
}

// Write streams entries as deflated zip archive into w.
func Write(ctx context.Context, w io.Writer, entries []Entry, modified time.Time) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.Name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return fmt.Errorf("unable to add %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("unable to write %s: %w", e.Name, err)
		}
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	return nil
}

func copyZipWithoutDataDescriptors(from string, out io.Writer) error {
	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to copy archive entry (%s): %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("unable to finalize archive: %w", err)
	}
	return nil
}

func copyFile(src string, out io.Writer) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	if _, err = io.Copy(out, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	return nil
}
