// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"crypto/tls"
	"net"
	"net/url"

	"github.com/gorilla/websocket"
)

const (
	textWebsocketSubprotocol   = "text.ircv3.net"
	binaryWebsocketSubprotocol = "binary.ircv3.net"
)

var (
	// IRCv3 WebSocket subprotocols, preferred first
	websocketSubprotocols = []string{textWebsocketSubprotocol, binaryWebsocketSubprotocol}
)

// Dial opens the configured connection: WebSocket if a websocket URL is set,
// otherwise TCP, with TLS if enabled.
func Dial(config *Config) (IRCConn, error) {
	network := &config.Network
	if network.Websocket.URL != "" {
		return dialWebsocket(network)
	}

	dialer := &net.Dialer{Timeout: network.ConnectTimeout}
	var conn net.Conn
	var err error
	if network.TLS.Enabled {
		conn, err = tls.DialWithDialer(dialer, "tcp", network.Address(), network.TLS.Config(network.Host))
	} else {
		conn, err = dialer.Dial("tcp", network.Address())
	}
	if err != nil {
		return nil, err
	}
	return NewIRCStreamConn(conn, network.MaxReadQBytes), nil
}

func dialWebsocket(network *NetworkConfig) (IRCConn, error) {
	wsURL, err := url.Parse(network.Websocket.URL)
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: network.ConnectTimeout,
		Subprotocols:     websocketSubprotocols,
		ReadBufferSize:   network.MaxReadQBytes,
	}
	if wsURL.Scheme == "wss" {
		tlsConfig := network.TLS.Config(wsURL.Hostname())
		dialer.TLSClientConfig = tlsConfig
	}
	conn, _, err := dialer.Dial(network.Websocket.URL, nil)
	if err != nil {
		return nil, err
	}
	conn.SetReadLimit(int64(network.MaxReadQBytes))
	return NewIRCWSConn(conn), nil
}
