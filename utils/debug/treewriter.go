// Package debug has helpers to produce readable dumps of internal structures
// for debug reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

const indent = "  "

type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) indent(depth int) {
	tw.w.WriteString(strings.Repeat(indent, depth))
}

// Line writes formatted line at requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled text value quoted, so invisible characters are
// visible in the dump.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Counters writes "name=value" pairs on a single line. Odd trailing name is
// ignored.
func (tw *TreeWriter) Counters(depth int, label string, pairs ...any) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteByte(':')
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw.w, " %v=%v", pairs[i], pairs[i+1])
	}
	tw.w.WriteByte('\n')
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
