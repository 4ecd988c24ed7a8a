// Copyright (c) 2020-2021 Shivaram Lingamneni
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"bytes"
	"io"
	"strings"
)

const (
	readChunkSize   = 1024
	defaultMaxReadQ = 16384
)

var (
	crlf = []byte{'\r', '\n'}
)

/*
LineFramer cuts a byte stream into CRLF-terminated lines. Each ReadBatch call
blocks until at least one complete line is buffered, then hands back every
complete line read so far, in order. Bytes after the last CRLF stay buffered
for the next call. The buffer is capped at maxSize bytes without a terminator.
*/
type LineFramer struct {
	conn    io.Reader
	maxSize int

	chunk   []byte
	pending []byte // read but not yet returned
	eof     bool
}

// NewLineFramer returns a framer reading from conn; maxSize <= 0 selects the default limit.
func NewLineFramer(conn io.Reader, maxSize int) *LineFramer {
	if maxSize <= 0 {
		maxSize = defaultMaxReadQ
	}
	return &LineFramer{
		conn:    conn,
		maxSize: maxSize,
		chunk:   make([]byte, readChunkSize),
	}
}

// ReadBatch returns the next batch of complete lines with their terminators removed.
// Consecutive terminators yield empty lines. It returns ErrConnectionClosed once the
// peer has closed the stream and no complete line remains; any unterminated tail
// is dropped at that point.
func (lf *LineFramer) ReadBatch() (lines []string, err error) {
	for {
		if idx := bytes.LastIndex(lf.pending, crlf); idx != -1 {
			lines = strings.Split(strings.ToValidUTF8(string(lf.pending[:idx]), "\uFFFD"), "\r\n")
			lf.pending = append(lf.pending[:0], lf.pending[idx+len(crlf):]...)
			return lines, nil
		}

		if lf.eof {
			return nil, ErrConnectionClosed
		}
		if len(lf.pending) >= lf.maxSize {
			return nil, ErrReadQ
		}

		n, err := lf.conn.Read(lf.chunk)
		lf.pending = append(lf.pending, lf.chunk[:n]...)
		if err == io.EOF || (n == 0 && err == nil) {
			// a final read may still complete some lines
			lf.eof = true
		} else if err != nil {
			return nil, err
		}
	}
}

// Buffered returns the number of bytes held back as an incomplete line.
func (lf *LineFramer) Buffered() int {
	return len(lf.pending)
}
