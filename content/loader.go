package content

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"u2s/archive"
)

// StdinSource is the source name which reads filter list from standard input.
const StdinSource = "-"

// ErrTooLarge is returned when filter list exceeds configured size limit.
var ErrTooLarge = errors.New("filter list is too large")

var listExtensions = []string{".txt", ".list"}

// IsListName reports if file name looks like filter list, used when
// scanning directories and archives.
func IsListName(name string) bool {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(name, `\`, "/")))
	for _, e := range listExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Loader reads filter lists from files, directories, zip archives (with
// optional path inside) and standard input.
type Loader struct {
	// MaxSize limits every single list.
	MaxSize datasize.ByteSize
	// CodePage forces encoding of lists and of non UTF-8 file names in
	// archives, nil means detect.
	CodePage encoding.Encoding
	Stdin    io.Reader
	Log      *zap.Logger
}

// NewLoader returns loader with encoding looked up by IANA name, empty name
// means detection.
func NewLoader(maxSize datasize.ByteSize, codePage string, log *zap.Logger) (*Loader, error) {
	l := &Loader{MaxSize: maxSize, Stdin: os.Stdin, Log: log}
	if len(codePage) > 0 {
		enc, err := ianaindex.IANA.Encoding(codePage)
		if err != nil {
			return nil, fmt.Errorf("unknown character set %q: %w", codePage, err)
		}
		if enc == nil {
			return nil, fmt.Errorf("unsupported character set %q", codePage)
		}
		l.CodePage = enc
	}
	return l, nil
}

// Load reads all sources in order. Any source which could not be located or
// read fails the whole load, unreadable lists found while scanning
// directories and archives are skipped with a warning.
func (l *Loader) Load(ctx context.Context, sources ...string) (*Input, error) {
	if len(sources) == 0 {
		return nil, errors.New("no input source has been specified")
	}
	in := &Input{}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := len(in.Lists)
		if err := l.loadSource(ctx, src, in); err != nil {
			return nil, err
		}
		if len(in.Lists) == before {
			l.Log.Warn("No filter lists found", zap.String("source", src))
		}
	}
	return in, nil
}

func (l *Loader) loadSource(ctx context.Context, src string, in *Input) error {
	if src == StdinSource {
		list, err := l.read(l.Stdin, "STDIN")
		if err != nil {
			return err
		}
		in.Lists = append(in.Lists, list)
		return nil
	}

	// Walk the path up until something exists on disk, remaining tail is
	// a path inside archive.
	var head, tail string
	for head = filepath.Clean(src); len(head) != 0; head, tail = filepath.Split(head) {
		head = strings.TrimSuffix(head, string(filepath.Separator))
		if len(head) == 0 {
			break
		}

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.IsDir() {
			if len(tail) != 0 {
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return l.loadDir(ctx, head, in)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s)", head)
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			inner := strings.TrimPrefix(strings.TrimPrefix(filepath.Clean(src), head), string(filepath.Separator))
			if err := l.loadArchive(ctx, head, inner, in); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) != 0 {
			return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}
		list, err := l.readFile(head)
		if err != nil {
			return err
		}
		in.Lists = append(in.Lists, list)
		return nil
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// loadDir picks up all lists under directory in lexical order, symbolic links
// are not followed.
func (l *Loader) loadDir(ctx context.Context, dir string, in *Input) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			l.Log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() || !IsListName(d.Name()) {
			return nil
		}
		list, err := l.readFile(path)
		if err != nil {
			l.Log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		in.Lists = append(in.Lists, list)
		return nil
	})
}

// loadArchive reads lists stored in archive under pathIn. When pathIn names
// a single file it is read regardless of its extension.
func (l *Loader) loadArchive(ctx context.Context, name, pathIn string, in *Input) error {
	pathIn = filepath.ToSlash(pathIn)
	return archive.Walk(ctx, name, pathIn, func(archive string, f *zip.File) error {
		exact := len(pathIn) > 0 && f.Name == pathIn
		if !exact && !IsListName(f.Name) {
			l.Log.Debug("Skipping file in archive", zap.String("archive", archive), zap.String("file", f.Name))
			return nil
		}
		if !exact && len(pathIn) > 0 && !strings.HasPrefix(f.Name, pathIn+"/") {
			// prefix match on partial name, "lists/a" must not pick "lists/ab.txt"
			return nil
		}

		source := archive + "/" + l.entryName(f)
		r, err := f.Open()
		if err != nil {
			l.Log.Warn("Skipping file in archive", zap.String("archive", archive), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		list, err := l.read(r, source)
		if err != nil {
			if exact {
				return err
			}
			l.Log.Warn("Skipping file in archive", zap.String("archive", archive), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		in.Lists = append(in.Lists, list)
		return nil
	})
}

// entryName decodes legacy (non UTF-8) file names when code page is forced.
func (l *Loader) entryName(f *zip.File) string {
	if l.CodePage == nil || !f.NonUTF8 {
		return f.Name
	}
	n, err := l.CodePage.NewDecoder().String(f.Name)
	if err != nil {
		cp, _ := ianaindex.IANA.Name(l.CodePage)
		l.Log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cp), zap.String("path", f.Name), zap.Error(err))
		return f.Name
	}
	return n
}

func (l *Loader) readFile(name string) (List, error) {
	f, err := os.Open(name)
	if err != nil {
		return List{}, err
	}
	defer f.Close()
	return l.read(f, name)
}

// read loads whole list into memory, enforcing size limit, and decodes it.
func (l *Loader) read(r io.Reader, source string) (List, error) {
	limit := int64(l.MaxSize.Bytes())
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return List{}, fmt.Errorf("unable to read %s: %w", source, err)
	}
	if int64(len(data)) > limit {
		return List{}, fmt.Errorf("%s: %w (limit %s)", source, ErrTooLarge, l.MaxSize.HR())
	}

	enc, name := l.CodePage, ""
	if enc == nil {
		enc, name = detectEncoding(data)
	} else {
		name, _ = ianaindex.IANA.Name(enc)
	}
	text, err := decode(data, enc)
	if err != nil {
		return List{}, fmt.Errorf("%s: %w", source, err)
	}

	list := newList(source, name, text)
	l.Log.Debug("Filter list loaded",
		zap.String("source", source), zap.String("encoding", name), zap.Int("lines", len(list.Lines)), zap.Int("bytes", len(data)))
	return list, nil
}
