// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

const (
	// RPL_WELCOME is the numeric that signals successful registration.
	RPL_WELCOME = "001"

	// maxLineLen is the protocol limit on a line, CRLF included.
	maxLineLen = 512
)
