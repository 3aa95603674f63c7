// Package metaformat reads and writes the plain text content format used for
// record fields: `key: value` pairs separated by `---` lines, multi-line
// values introduced by `key:` followed by a blank line.
package metaformat

import (
	"regexp"
	"strings"
)

// Pair is a single key/value entry.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var (
	separatorLine = regexp.MustCompile(`^-{3,}$`)
	escapedLine   = regexp.MustCompile(`^-{4,}$`)
	needsBlock    = regexp.MustCompile(`([\r\n]|^[\t ]|[\t ]$)`)
)

// Tokenize splits text into key/value pairs.
func Tokenize(text string) []Pair {
	var (
		out         []Pair
		key         string
		haveKey     bool
		buf         []string
		wantNewline bool
	)

	flush := func() {
		if !haveKey {
			return
		}
		value := strings.Join(buf, "")
		value = strings.TrimRight(value, "\n")
		out = append(out, Pair{Key: key, Value: value})
		key, haveKey, buf = "", false, nil
	}

	for _, raw := range SplitLines(text) {
		line := strings.TrimRight(raw, "\r\n")
		trimmedRight := strings.TrimRight(line, " \t")

		if trimmedRight == "---" {
			wantNewline = false
			flush()
			continue
		}

		if haveKey {
			if wantNewline {
				wantNewline = false
				if strings.TrimSpace(line) == "" {
					continue
				}
			}
			if escapedLine.MatchString(trimmedRight) {
				line = line[1:]
			}
			buf = append(buf, line+"\n")
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key, haveKey = strings.TrimSpace(name), true
		if first := strings.TrimSpace(rest); first != "" {
			buf = []string{first + "\n"}
		} else {
			buf = nil
			wantNewline = true
		}
	}
	flush()
	return out
}

// Serialize renders pairs back into text. Values that span lines or carry
// leading/trailing blanks are written as blocks.
func Serialize(pairs []Pair) string {
	var b strings.Builder
	for idx, pair := range pairs {
		if idx > 0 {
			b.WriteString("---\n")
		}
		if needsBlock.MatchString(pair.Value) {
			b.WriteString(pair.Key)
			b.WriteString(":\n\n")
			for _, line := range SplitLines(pair.Value) {
				line = strings.TrimRight(line, "\r\n")
				if separatorLine.MatchString(strings.TrimRight(line, " \t")) {
					line = "-" + line
				}
				b.WriteString(line)
				b.WriteByte('\n')
			}
			continue
		}
		b.WriteString(pair.Key)
		b.WriteString(": ")
		b.WriteString(pair.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// Lookup returns the value stored under key.
func Lookup(pairs []Pair, key string) (string, bool) {
	for _, pair := range pairs {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// SplitLines splits text after every newline, keeping the terminators.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
