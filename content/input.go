// Package content loads filter lists from local sources and presents them as
// a single stream of lines.
package content

import (
	"iter"
	"strings"

	"u2s/filter"
)

// Line is single line of a filter list with its origin.
type Line struct {
	Source string
	Num    int // 1-based
	Text   string
}

// List is a single loaded filter list.
type List struct {
	Source   string
	Encoding string
	Lines    []string
}

func newList(source, encoding, text string) List {
	l := List{Source: source, Encoding: encoding}
	for line := range strings.Lines(text) {
		l.Lines = append(l.Lines, strings.TrimRight(line, "\r\n"))
	}
	return l
}

// Input is a concatenation of filter lists in the order they were loaded.
type Input struct {
	Lists []List
}

// Len returns total number of lines.
func (in *Input) Len() int {
	n := 0
	for _, l := range in.Lists {
		n += len(l.Lines)
	}
	return n
}

// Lines iterates over raw text of all lines.
func (in *Input) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range in.Lists {
			for _, text := range l.Lines {
				if !yield(text) {
					return
				}
			}
		}
	}
}

// Entries iterates over all lines keeping track of their origin.
func (in *Input) Entries() iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for _, l := range in.Lists {
			for i, text := range l.Lines {
				if !yield(Line{Source: l.Source, Num: i + 1, Text: text}) {
					return
				}
			}
		}
	}
}

// Classified pairs every line with its classification.
func (in *Input) Classified() iter.Seq2[Line, filter.Result] {
	return func(yield func(Line, filter.Result) bool) {
		for line := range in.Entries() {
			if !yield(line, filter.Classify(line.Text)) {
				return
			}
		}
	}
}

// Results iterates over classification results only.
func (in *Input) Results() iter.Seq[filter.Result] {
	return func(yield func(filter.Result) bool) {
		for _, res := range in.Classified() {
			if !yield(res) {
				return
			}
		}
	}
}
