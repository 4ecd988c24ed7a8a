// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"bytes"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

// IRCConn abstracts away the distinction between a regular
// net.Conn (which includes both raw TCP and TLS) and a websocket.
// it doesn't expose Read and Write because websockets are message-oriented,
// not stream-oriented.
type IRCConn interface {
	// ReadLines blocks until at least one line is available.
	ReadLines() (lines []string, err error)
	// WriteLine sends one CRLF-terminated line.
	WriteLine(line []byte) error

	Close() error
}

// IRCStreamConn is an IRCConn over a regular stream connection.
type IRCStreamConn struct {
	conn   net.Conn
	framer *LineFramer
}

func NewIRCStreamConn(conn net.Conn, maxReadQ int) *IRCStreamConn {
	return &IRCStreamConn{
		conn:   conn,
		framer: NewLineFramer(conn, maxReadQ),
	}
}

func (cc *IRCStreamConn) ReadLines() (lines []string, err error) {
	return cc.framer.ReadBatch()
}

func (cc *IRCStreamConn) WriteLine(line []byte) (err error) {
	_, err = cc.conn.Write(line)
	return
}

func (cc *IRCStreamConn) Close() (err error) {
	return cc.conn.Close()
}

// IRCWSConn is an IRCConn over a websocket; each message carries one line.
// Under the binary.ircv3.net subprotocol lines travel as binary messages.
type IRCWSConn struct {
	conn   *websocket.Conn
	binary bool
}

func NewIRCWSConn(conn *websocket.Conn) IRCWSConn {
	return IRCWSConn{
		conn:   conn,
		binary: conn.Subprotocol() == binaryWebsocketSubprotocol,
	}
}

func (wc IRCWSConn) WriteLine(buf []byte) (err error) {
	buf = bytes.TrimSuffix(buf, crlf)
	if wc.binary {
		return wc.conn.WriteMessage(websocket.BinaryMessage, buf)
	}
	// there's not much we can do about this;
	// silently drop the message
	if !utf8.Valid(buf) {
		return nil
	}
	return wc.conn.WriteMessage(websocket.TextMessage, buf)
}

func (wc IRCWSConn) ReadLines() (lines []string, err error) {
	for {
		messageType, line, err := wc.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, ErrConnectionClosed
			}
			return nil, err
		}
		// on empty message or a control message, try again, block if necessary
		if (messageType == websocket.TextMessage || messageType == websocket.BinaryMessage) && len(line) != 0 {
			line = bytes.TrimSuffix(line, crlf)
			return []string{strings.ToValidUTF8(string(line), "\uFFFD")}, nil
		}
	}
}

func (wc IRCWSConn) Close() (err error) {
	return wc.conn.Close()
}
