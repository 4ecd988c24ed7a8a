// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

// chunkReader returns its chunks one Read at a time, then EOF
type chunkReader struct {
	chunks []string
}

func (cr *chunkReader) Read(p []byte) (n int, err error) {
	if len(cr.chunks) == 0 {
		return 0, io.EOF
	}
	n = copy(p, cr.chunks[0])
	if n < len(cr.chunks[0]) {
		cr.chunks[0] = cr.chunks[0][n:]
	} else {
		cr.chunks = cr.chunks[1:]
	}
	return n, nil
}

func readAllBatches(t *testing.T, framer *LineFramer) (batches [][]string, err error) {
	t.Helper()
	for {
		batch, err := framer.ReadBatch()
		if err != nil {
			return batches, err
		}
		batches = append(batches, batch)
	}
}

func TestFramerBatches(t *testing.T) {
	reader := &chunkReader{chunks: []string{
		"PING :a\r\nPING :b\r\n",
		"PING :c\r\n",
	}}
	batches, err := readAllBatches(t, NewLineFramer(reader, 0))
	if err != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
	assertEqual(batches, [][]string{
		{"PING :a", "PING :b"},
		{"PING :c"},
	}, t)
}

func TestFramerCarriesPartialLine(t *testing.T) {
	reader := &chunkReader{chunks: []string{
		"PING :a\r\nPRIVMSG #room :hel",
		"lo world\r",
		"\nPING :b\r\n",
	}}
	batches, err := readAllBatches(t, NewLineFramer(reader, 0))
	if err != ErrConnectionClosed {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
	assertEqual(batches, [][]string{
		{"PING :a"},
		{"PRIVMSG #room :hello world", "PING :b"},
	}, t)
}

func TestFramerOneByteAtATime(t *testing.T) {
	input := ":irc.example 001 oxygen :Welcome\r\nPING :x\r\n"
	framer := NewLineFramer(iotest.OneByteReader(strings.NewReader(input)), 0)
	var lines []string
	for {
		batch, err := framer.ReadBatch()
		if err != nil {
			if err != ErrConnectionClosed {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		lines = append(lines, batch...)
	}
	assertEqual(lines, []string{":irc.example 001 oxygen :Welcome", "PING :x"}, t)
}

func TestFramerEmptyLines(t *testing.T) {
	reader := &chunkReader{chunks: []string{"PING :a\r\n\r\nPING :b\r\n"}}
	batch, err := NewLineFramer(reader, 0).ReadBatch()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(batch, []string{"PING :a", "", "PING :b"}, t)
}

func TestFramerLFIsNotATerminator(t *testing.T) {
	reader := &chunkReader{chunks: []string{"PING :a\nPING :b\r\n"}}
	batch, err := NewLineFramer(reader, 0).ReadBatch()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(batch, []string{"PING :a\nPING :b"}, t)
}

func TestFramerDropsTailAtClose(t *testing.T) {
	framer := NewLineFramer(&chunkReader{chunks: []string{"PING :a\r\nPING :unfinish"}}, 0)
	batch, err := framer.ReadBatch()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(batch, []string{"PING :a"}, t)
	assertEqual(framer.Buffered(), len("PING :unfinish"), t)

	if _, err = framer.ReadBatch(); err != ErrConnectionClosed {
		t.Errorf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestFramerReadQ(t *testing.T) {
	reader := &chunkReader{chunks: []string{strings.Repeat("a", 100), strings.Repeat("b", 100)}}
	framer := NewLineFramer(reader, 64)
	if _, err := framer.ReadBatch(); err != ErrReadQ {
		t.Errorf("expected ErrReadQ, got %v", err)
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	return 0, nil
}

func TestFramerZeroReadIsClosed(t *testing.T) {
	if _, err := NewLineFramer(zeroReader{}, 0).ReadBatch(); err != ErrConnectionClosed {
		t.Errorf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestFramerPassesThroughErrors(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := NewLineFramer(iotest.ErrReader(boom), 0).ReadBatch()
	if err != boom {
		t.Errorf("expected the read error, got %v", err)
	}
}

func TestFramerInvalidUTF8(t *testing.T) {
	reader := &chunkReader{chunks: []string{"PRIVMSG #a :caf\xe9\r\n"}}
	batch, err := NewLineFramer(reader, 0).ReadBatch()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(batch, []string{"PRIVMSG #a :caf\uFFFD"}, t)
}
