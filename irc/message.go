// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// SenderKind says which of the three sender shapes a message has.
type SenderKind uint8

const (
	// SenderNobody is a message without a prefix (PING, for example).
	SenderNobody SenderKind = iota
	// SenderServer is a prefix that isn't in nick!user@host form.
	SenderServer
	// SenderUser is a nick!user@host prefix.
	SenderUser
)

// Sender is the origin of a message. Only the fields that belong to Kind are set:
// Name holds the hostname for SenderServer and the nickname for SenderUser.
type Sender struct {
	Kind SenderKind
	Name string
	User string
	Host string
}

func NobodySender() Sender {
	return Sender{Kind: SenderNobody}
}

func ServerSender(host string) Sender {
	return Sender{Kind: SenderServer, Name: host}
}

func UserSender(nick, user, host string) Sender {
	return Sender{Kind: SenderUser, Name: nick, User: user, Host: host}
}

// Nick returns the sender's nickname; ok is false unless the sender is a user.
func (s Sender) Nick() (nick string, ok bool) {
	if s.Kind != SenderUser {
		return "", false
	}
	return s.Name, true
}

func (s Sender) String() string {
	switch s.Kind {
	case SenderServer:
		return s.Name
	case SenderUser:
		return s.Name + "!" + s.User + "@" + s.Host
	default:
		return "*"
	}
}

// Message is one parsed protocol line.
type Message struct {
	Sender  Sender
	Command string
	Params  []string
}

// ParseLine parses a single line (without its CRLF terminator) into a Message.
//
// Grammar: [':' prefix ' '] command [' ' params]. Params are space separated,
// except that the first one starting with ':' swallows the rest of the line:
// it and every following token, colon removed and rejoined with single spaces,
// become the final parameter.
func ParseLine(line string) (msg Message, err error) {
	if len(line) == 0 {
		return msg, &ParseError{Line: line, Reason: errLineEmpty}
	}

	rest := line
	msg.Sender = NobodySender()
	if rest[0] == ':' {
		spaceIdx := strings.IndexByte(rest, ' ')
		if spaceIdx == -1 {
			return msg, &ParseError{Line: line, Reason: errCommandMissing}
		}
		prefix := rest[1:spaceIdx]
		if len(prefix) == 0 {
			return msg, &ParseError{Line: line, Reason: errPrefixEmpty}
		}
		msg.Sender = parseSender(prefix)
		rest = trimInitialSpaces(rest[spaceIdx+1:])
	}

	command, params, _ := strings.Cut(rest, " ")
	if len(command) == 0 {
		return msg, &ParseError{Line: line, Reason: errCommandMissing}
	}
	if !isWord(command) {
		return msg, &ParseError{Line: line, Reason: errCommandInvalid}
	}
	msg.Command = command
	msg.Params = splitParams(params)
	return msg, nil
}

// a prefix is a user only if it has both the !user and @host parts
func parseSender(prefix string) Sender {
	nuh, err := ircmsg.ParseNUH(prefix)
	if err == nil && nuh.Name != "" && nuh.User != "" && nuh.Host != "" {
		return UserSender(nuh.Name, nuh.User, nuh.Host)
	}
	return ServerSender(prefix)
}

func splitParams(params string) (result []string) {
	fields := strings.Fields(params)
	for i, field := range fields {
		if field[0] == ':' {
			trailing := append([]string{field[1:]}, fields[i+1:]...)
			return append(result, strings.Join(trailing, " "))
		}
		result = append(result, field)
	}
	return result
}

// slice off any amount of ' ' from the front of the string
func trimInitialSpaces(str string) string {
	var i int
	for i = 0; i < len(str) && str[i] == ' '; i++ {
	}
	return str[i:]
}

func isWord(token string) bool {
	for i := 0; i < len(token); i++ {
		c := token[i]
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_') {
			return false
		}
	}
	return true
}

// pongLine turns a PING line into its PONG by replacing the command token in place;
// everything else in the line is kept byte for byte.
func pongLine(line string) string {
	start := 0
	if strings.HasPrefix(line, ":") {
		spaceIdx := strings.IndexByte(line, ' ')
		if spaceIdx == -1 {
			return line
		}
		start = spaceIdx + 1 + len(line[spaceIdx+1:]) - len(trimInitialSpaces(line[spaceIdx+1:]))
	}
	if !strings.HasPrefix(line[start:], "PING") {
		return line
	}
	return line[:start] + "PONG" + line[start+len("PING"):]
}
