// Package secrecy decides which lines of a decrypted entry may be shown.
//
// Line 0 of an entry is the primary secret. Later lines are either
// "Key: Value" pairs or free text. A line is shown in full only when the
// policy says so; otherwise only its key (or a mask) is ever displayed and
// the real value is re-read from the store when the line is selected.
package secrecy

import (
	"errors"
	"fmt"
	"strings"
)

// Mask stands in for a redacted line that has no key.
const Mask = "********"

// Separator splits a line into key and value.
const Separator = ": "

// ErrNoSuchLine is returned by Resolve for an index that does not name a
// non-blank line.
var ErrNoSuchLine = errors.New("no such line")

// DefaultSafeKeys are the keys shown in full unless configured otherwise.
func DefaultSafeKeys() []string {
	return []string{"URL", "Username"}
}

// Policy controls redaction.
type Policy struct {
	ShowSecrets bool
	SafeKeys    []string
}

// IsSafe reports whether values under key may be displayed. Keys compare
// case-insensitively; the empty key is never safe.
func (p Policy) IsSafe(key string) bool {
	if key == "" {
		return false
	}
	for _, safe := range p.SafeKeys {
		if strings.EqualFold(safe, key) {
			return true
		}
	}
	return false
}

// Line is one displayable line of an entry.
type Line struct {
	// Index is the position in the raw contents, blank lines included.
	Index int

	// Key is the part before the separator, empty for line 0 and for lines
	// without one.
	Key string

	// Display is safe to show: the full line, the key or Mask.
	Display string

	Redacted bool
}

// SplitKV splits line on the first separator.
func SplitKV(line string) (key, value string, ok bool) {
	return strings.Cut(line, Separator)
}

// Lines splits contents into raw lines, dropping a trailing \r from each.
// A single trailing newline does not produce an extra line.
func Lines(contents string) []string {
	contents = strings.TrimSuffix(contents, "\n")
	if contents == "" {
		return nil
	}
	lines := strings.Split(contents, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Classify applies p to every non-blank line of contents.
func Classify(contents string, p Policy) []Line {
	var out []Line
	for i, raw := range Lines(contents) {
		if isBlank(raw) {
			continue
		}
		out = append(out, classifyLine(i, raw, p))
	}
	return out
}

func classifyLine(index int, raw string, p Policy) Line {
	if index == 0 {
		if p.ShowSecrets {
			return Line{Index: index, Display: raw}
		}
		return Line{Index: index, Display: Mask, Redacted: true}
	}

	key, _, ok := SplitKV(raw)
	if !ok {
		key = ""
	}
	if p.ShowSecrets || p.IsSafe(key) {
		return Line{Index: index, Key: key, Display: raw}
	}

	display := key
	if display == "" {
		display = Mask
	}
	return Line{Index: index, Key: key, Display: display, Redacted: true}
}

// Resolve returns the value to copy for the line at index: the whole line
// for line 0, otherwise the value half of a key/value line or the whole
// line when it has no separator.
func Resolve(contents string, index int) (string, error) {
	lines := Lines(contents)
	if index < 0 || index >= len(lines) || isBlank(lines[index]) {
		return "", fmt.Errorf("line %d: %w", index, ErrNoSuchLine)
	}

	line := lines[index]
	if index == 0 {
		return line, nil
	}
	if _, value, ok := SplitKV(line); ok {
		return value, nil
	}
	return line, nil
}
