// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"errors"
	"fmt"
)

// Socket Errors
var (
	ErrConnectionClosed = errors.New("Connection closed by remote peer")
	ErrReadQ            = errors.New("ReadQ exceeded (read too many bytes without a terminating CRLF)")
	errSessionQuit      = errors.New("Session quit")
)

// Parse Errors
const (
	errLineEmpty      = "line is empty"
	errPrefixEmpty    = "prefix is empty"
	errCommandMissing = "command is missing"
	errCommandInvalid = "command contains non-word characters"
)

// ParseError is returned by ParseLine when a line doesn't fit the message grammar.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("Could not parse line [%s]: %s", e.Line, e.Reason)
}

// Config Errors
var (
	ErrHostMissing           = errors.New("Network host missing")
	ErrHostNotHostname       = errors.New("Network host must be an IP address or match the format of a hostname")
	ErrPortInvalid           = errors.New("Network port must be between 1 and 65535")
	ErrNicknameMissing       = errors.New("Bot nickname missing")
	ErrNicknameInvalid       = errors.New("Bot nickname must not contain spaces or start with ':'")
	ErrChannelInvalid        = errors.New("Channel names must not be empty or contain spaces or commas")
	ErrTriggerInvalid        = errors.New("Trigger must be exactly one non-space character")
	ErrFactoidsBackend       = errors.New("Factoid backend must be 'text' or 'buntdb'")
	ErrLoggerExcludeEmpty    = errors.New("Encountered logging type '-' with no type to exclude")
	ErrLoggerFilenameMissing = errors.New("Logging configuration specifies 'file' method but 'filename' is empty")
	ErrLoggerHasNoTypes      = errors.New("Logger has no types to log")
	ErrWebsocketURLInvalid   = errors.New("Websocket URL must use the ws or wss scheme")
)
