// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package factoids

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/oxygen-irc/oxygen/irc/utils"
)

// TextBackend stores factoids in a plain text file, one `name text` record per line.
type TextBackend struct {
	path string
}

func NewTextBackend(path string) *TextBackend {
	return &TextBackend{path: path}
}

// Load reads the file; a missing file is an empty store.
func (tb *TextBackend) Load() (map[string]string, error) {
	file, err := os.Open(tb.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	} else if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseText(file)
}

// Save rewrites the whole file atomically.
func (tb *TextBackend) Save(factoids map[string]string) error {
	return utils.WriteFileAtomic(tb.path, FormatText(factoids), 0644)
}

func (tb *TextBackend) Close() error {
	return nil
}

// ParseText reads `name text` records, one per line. The text is everything after
// the first space, trimmed; lines without a space are skipped. A later record for
// the same name replaces an earlier one.
func ParseText(r io.Reader) (map[string]string, error) {
	factoids := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		name, text, found := strings.Cut(strings.TrimSuffix(scanner.Text(), "\r"), " ")
		if !found {
			continue
		}
		factoids[name] = strings.TrimSpace(text)
	}
	return factoids, scanner.Err()
}

// FormatText serializes factoids as newline-separated `name text` records.
// Record order follows map iteration and isn't stable.
func FormatText(factoids map[string]string) []byte {
	var buf bytes.Buffer
	for name, text := range factoids {
		buf.WriteString(name)
		buf.WriteByte(' ')
		buf.WriteString(text)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
