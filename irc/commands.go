// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2014-2015 Edmund Huber
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircfmt"

	"github.com/oxygen-irc/oxygen/irc/utils"
)

const (
	// factoid listings are wrapped to lines of this many bytes
	maxListLineLen = 400
)

// Command is a verb of the trigger command language.
type Command struct {
	handler   func(session *Session, req *commandRequest) error
	minParams int
}

// commandRequest is one trigger command invocation.
type commandRequest struct {
	msg    Message
	target string // where replies go
	name   string
	params []string
}

// Commands holds the verbs; any other name is looked up as a factoid.
var Commands map[string]Command

func init() {
	Commands = map[string]Command{
		"at": {
			handler:   atHandler,
			minParams: 2,
		},
		"defact": {
			handler:   defactHandler,
			minParams: 2,
		},
		"factoids": {
			handler: factoidsHandler,
		},
	}
}

// runCommand runs the command text that followed the trigger character.
// Returned errors are fatal to the session; user mistakes are not errors.
func (session *Session) runCommand(msg Message, text string) error {
	name, rawArgs, _ := strings.Cut(text, " ")
	req := &commandRequest{
		msg:    msg,
		target: session.replyTarget(msg),
		name:   ircfmt.Strip(name),
		params: strings.Fields(rawArgs),
	}

	cmd, ok := Commands[req.name]
	if !ok {
		return lookupHandler(session, req)
	}
	if len(req.params) < cmd.minParams {
		session.logger.Debug("commands", "Not enough parameters for", req.name)
		return nil
	}
	session.logger.Debug("commands", msg.Sender.String(), "ran", req.name)
	return cmd.handler(session, req)
}

// $defact <name> <text...>
func defactHandler(session *Session, req *commandRequest) error {
	name := req.params[0]
	text := strings.Join(req.params[1:], " ")
	if err := session.factoids.Define(name, text); err != nil {
		return err
	}
	session.logger.Info("commands", fmt.Sprintf("%s defined factoid %s", req.msg.Sender.String(), name))

	if nick, ok := req.msg.Sender.Nick(); ok {
		return session.say(req.target, fmt.Sprintf("%s: defined %s", nick, name))
	}
	return nil
}

// $factoids
func factoidsHandler(session *Session, req *commandRequest) error {
	var tokens []string
	if nick, ok := req.msg.Sender.Nick(); ok {
		tokens = append(tokens, nick+":")
	}
	names := session.factoids.Names()
	if len(names) == 0 {
		tokens = append(tokens, "no factoids defined")
	}
	tokens = append(tokens, names...)
	for _, line := range utils.BuildTokenLines(maxListLineLen, tokens, " ") {
		if err := session.say(req.target, line); err != nil {
			return err
		}
	}
	return nil
}

// $at <recipient> <name>
func atHandler(session *Session, req *commandRequest) error {
	recipient, name := req.params[0], req.params[1]
	if text, ok := session.factoids.Get(name); ok {
		return session.say(recipient, text)
	}
	if nick, ok := req.msg.Sender.Nick(); ok {
		return session.say(req.target, fmt.Sprintf("%s: No such factoid: %s", nick, name))
	}
	return nil
}

// $<name>
func lookupHandler(session *Session, req *commandRequest) error {
	text, ok := session.factoids.Get(req.name)
	if !ok {
		return nil
	}
	return session.say(req.target, text)
}
