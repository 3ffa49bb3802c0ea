package content

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// zip signature is 4 bytes, filetype needs a bit more for some of the
// archive kinds
const sniffLen = 262

// isArchiveFile checks file content (not extension) to see if it is zip
// archive.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// detectEncoding guesses text encoding when it was not forced. Valid UTF-8 is
// always taken as is, otherwise html/charset rules are used (BOM, then
// windows-1252).
func detectEncoding(data []byte) (encoding.Encoding, string) {
	if utf8.Valid(data) {
		return unicode.UTF8, "utf-8"
	}
	enc, name, _ := charset.DetermineEncoding(data, "text/plain")
	return enc, name
}

// decode converts data to UTF-8 text. Byte order mark, if present, always
// wins over enc and is removed.
func decode(data []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("unable to decode text: %w", err)
	}
	return string(out), nil
}
