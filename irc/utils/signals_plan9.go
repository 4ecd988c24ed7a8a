//go:build plan9

// Copyright (c) 2020 Shivaram Lingamneni
// released under the MIT license

package utils

import (
	"os"
	"syscall"
)

// ExitSignals are the signals the bot quits on.
// (no SIGQUIT on plan9)
var ExitSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}
