// Copyright (c) 2020 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockConn is a fake net.Conn that yields len(counts) lines,
// each consisting of counts[i] 'a' characters and a terminating CRLF
type mockConn struct {
	counts  []int
	midLine bool // the current line's \r has been written but not its \n
	written []byte
}

func (c *mockConn) Read(b []byte) (n int, err error) {
	for len(b) > 0 {
		if len(c.counts) == 0 {
			return n, io.EOF
		}
		if c.midLine {
			b[0] = '\n'
			c.midLine = false
			c.counts = c.counts[1:]
			b = b[1:]
			n += 1
			continue
		}
		if c.counts[0] == 0 {
			b[0] = '\r'
			c.midLine = true
			b = b[1:]
			n += 1
			continue
		}
		size := c.counts[0]
		if len(b) < size {
			size = len(b)
		}
		for i := 0; i < size; i++ {
			b[i] = 'a'
		}
		c.counts[0] -= size
		b = b[size:]
		n += size
	}
	return n, nil
}

func (c *mockConn) Write(b []byte) (n int, err error) {
	c.written = append(c.written, b...)
	return len(b), nil
}

func (c *mockConn) Close() error {
	c.counts = nil
	return nil
}

func (c *mockConn) LocalAddr() net.Addr {
	return nil
}

func (c *mockConn) RemoteAddr() net.Addr {
	return nil
}

func (c *mockConn) SetDeadline(t time.Time) error {
	return nil
}

func (c *mockConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c *mockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func newMockConn(counts []int) *mockConn {
	cpCounts := make([]int, len(counts))
	copy(cpCounts, counts)
	return &mockConn{
		counts: cpCounts,
	}
}

// construct a mock reader with some number of CRLF-terminated lines,
// verify that IRCStreamConn can read and split them as expected
func doLineReaderTest(counts []int, t *testing.T) {
	c := newMockConn(counts)
	r := NewIRCStreamConn(c, 0)
	var readCounts []int
	for {
		lines, err := r.ReadLines()
		if err == nil {
			for _, line := range lines {
				readCounts = append(readCounts, len(line))
			}
		} else if err == ErrConnectionClosed {
			break
		} else {
			panic(err)
		}
	}

	if !reflect.DeepEqual(counts, readCounts) {
		t.Errorf("expected %#v, got %#v", counts, readCounts)
	}
}

const (
	maxMockReaderLen     = 100
	maxMockReaderLineLen = 4096 + 511
)

func TestLineReader(t *testing.T) {
	counts := []int{44, 428, 3, 0, 200, 2000, 0, 4044, 33, 3, 2, 1, 0, 1, 2, 3, 48, 555}
	doLineReaderTest(counts, t)

	// fuzz
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := 0; i < 1000; i++ {
		countsLen := r.Intn(maxMockReaderLen) + 1
		counts := make([]int, countsLen)
		for i := 0; i < countsLen; i++ {
			counts[i] = r.Intn(maxMockReaderLineLen)
		}
		doLineReaderTest(counts, t)
	}
}

func TestStreamConnWriteLine(t *testing.T) {
	c := newMockConn(nil)
	r := NewIRCStreamConn(c, 0)
	if err := r.WriteLine([]byte("NICK oxygen\r\n")); err != nil {
		t.Fatal(err)
	}
	assertEqual(string(c.written), "NICK oxygen\r\n", t)
}

func TestWebsocketConn(t *testing.T) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	received := make(chan string, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, nil)
		conn.WriteMessage(websocket.TextMessage, []byte("PING :ws\r\n"))
		_, message, err := conn.ReadMessage()
		if err == nil {
			received <- string(message)
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	wsConn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatal(err)
	}
	conn := NewIRCWSConn(wsConn)
	defer conn.Close()

	lines, err := conn.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(lines, []string{"PING :ws"}, t)

	if err := conn.WriteLine([]byte("PONG :ws\r\n")); err != nil {
		t.Fatal(err)
	}
	assertEqual(<-received, "PONG :ws", t)

	if _, err := conn.ReadLines(); err != ErrConnectionClosed {
		t.Errorf("expected ErrConnectionClosed, got %v", err)
	}
}

func TestDialWebsocketBinary(t *testing.T) {
	upgrader := websocket.Upgrader{
		Subprotocols: []string{binaryWebsocketSubprotocol},
		CheckOrigin:  func(r *http.Request) bool { return true },
	}
	received := make(chan []interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.BinaryMessage, []byte("PING :bin"))
		messageType, message, err := conn.ReadMessage()
		if err == nil {
			received <- []interface{}{messageType, string(message)}
		}
	}))
	defer server.Close()

	config := testConfig()
	config.Network.Websocket.URL = "ws" + strings.TrimPrefix(server.URL, "http")
	config.Network.ConnectTimeout = 5 * time.Second
	config.Network.MaxReadQBytes = 16384
	conn, err := Dial(config)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	lines, err := conn.ReadLines()
	if err != nil {
		t.Fatal(err)
	}
	assertEqual(lines, []string{"PING :bin"}, t)

	if err := conn.WriteLine([]byte("PONG :bin\r\n")); err != nil {
		t.Fatal(err)
	}
	assertEqual(<-received, []interface{}{websocket.BinaryMessage, "PONG :bin"}, t)
}
