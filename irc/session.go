// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/ergochat/irc-go/ircutils"

	"github.com/oxygen-irc/oxygen/irc/factoids"
	"github.com/oxygen-irc/oxygen/irc/logger"
)

// Session is one registered connection to the server. Everything except Quit
// runs on the goroutine that called Run.
type Session struct {
	config   *Config
	conn     IRCConn
	factoids *factoids.Store
	logger   *logger.Manager
	throttle *Throttle

	nickname   string
	channels   []string
	trigger    string
	registered bool

	// called once the server accepts our registration
	onRegistered func()

	writeLock sync.Mutex
	quitting  atomic.Bool
}

func NewSession(config *Config, conn IRCConn, store *factoids.Store, logger *logger.Manager) *Session {
	return &Session{
		config:   config,
		conn:     conn,
		factoids: store,
		logger:   logger,
		throttle: NewThrottle(config.Bot.Throttle),
		nickname: config.Bot.Nickname,
		channels: config.Bot.Channels,
		trigger:  config.Bot.Trigger,
	}
}

// Nick returns our current nickname.
func (session *Session) Nick() string {
	return session.nickname
}

// Run registers with the server and then handles incoming lines until the
// connection fails or a command fails fatally. It never returns nil.
func (session *Session) Run() error {
	if err := session.register(); err != nil {
		return err
	}

	for {
		lines, err := session.conn.ReadLines()
		if err != nil {
			if session.quitting.Load() {
				return errSessionQuit
			}
			return err
		}
		if err := session.handleBatch(lines); err != nil {
			return err
		}
	}
}

// Quit sends QUIT and closes the connection, which ends Run. Safe to call
// from any goroutine.
func (session *Session) Quit(reason string) {
	if !session.quitting.CompareAndSwap(false, true) {
		return
	}
	session.send("QUIT", true, reason)
	session.conn.Close()
}

func (session *Session) register() error {
	botConfig := &session.config.Bot
	if password := session.config.Network.Password; password != "" {
		if err := session.send("PASS", false, password); err != nil {
			return err
		}
	}
	if err := session.send("NICK", false, session.nickname); err != nil {
		return err
	}
	return session.send("USER", true, botConfig.Username, "*", "*", botConfig.Realname)
}

// handleBatch handles lines in order; an empty line ends the batch.
func (session *Session) handleBatch(lines []string) error {
	session.throttle.StartBatch()
	for _, line := range lines {
		if len(line) == 0 {
			break
		}
		if err := session.handleLine(line); err != nil {
			return err
		}
	}
	return nil
}

func (session *Session) handleLine(line string) error {
	if session.logger.IsLoggingRawIO() {
		session.logger.Debug(logger.TypeInput, line)
	}

	msg, err := ParseLine(line)
	if err != nil {
		session.logger.Warning("session", "Skipping line", err.Error())
		return nil
	}

	handler, ok := protocolHandlers[msg.Command]
	if !ok {
		return nil
	}
	return handler(session, line, msg)
}

var protocolHandlers map[string]func(session *Session, line string, msg Message) error

func init() {
	protocolHandlers = map[string]func(session *Session, line string, msg Message) error{
		"PING":      pingHandler,
		RPL_WELCOME: welcomeHandler,
		"PRIVMSG":   privmsgHandler,
		"ERROR":     errorHandler,
	}
}

// PING answers go out before anything else is done with the line
func pingHandler(session *Session, line string, msg Message) error {
	return session.sendLine(pongLine(line))
}

func welcomeHandler(session *Session, line string, msg Message) error {
	if session.registered {
		session.logger.Debug("session", "Ignoring repeated", RPL_WELCOME)
		return nil
	}
	if 0 < len(msg.Params) && isValidParam(msg.Params[0]) {
		session.nickname = msg.Params[0]
	}
	session.registered = true
	session.logger.Info("session", "Registered as", session.nickname)

	for _, channel := range session.channels {
		if err := session.send("JOIN", false, channel); err != nil {
			return err
		}
	}
	if session.onRegistered != nil {
		session.onRegistered()
	}
	return nil
}

func privmsgHandler(session *Session, line string, msg Message) error {
	if len(msg.Params) < 2 {
		return nil
	}
	body := msg.Params[1]
	if !strings.HasPrefix(body, session.trigger) {
		return nil
	}
	return session.runCommand(msg, body[len(session.trigger):])
}

func errorHandler(session *Session, line string, msg Message) error {
	reason := ""
	if 0 < len(msg.Params) {
		reason = msg.Params[len(msg.Params)-1]
	}
	session.logger.Warning("session", "Server sent ERROR", reason)
	return nil
}

// replyTarget is where replies to msg go: the channel it was sent to, or the
// sender if it was sent to us directly.
func (session *Session) replyTarget(msg Message) string {
	target := msg.Params[0]
	if nick, ok := msg.Sender.Nick(); ok && nicksEqual(target, session.nickname) {
		return nick
	}
	return target
}

// say sends a chat message, subject to the reply throttle.
func (session *Session) say(target, text string) error {
	session.throttle.Wait()
	return session.send("PRIVMSG", true, target, ircutils.SanitizeText(text, maxLineLen))
}

// send serializes and sends one message. A message that can't be serialized is
// logged and dropped; only write failures are returned.
func (session *Session) send(command string, forceTrailing bool, params ...string) error {
	msg := ircmsg.MakeMessage(nil, "", command, params...)
	if forceTrailing {
		msg.ForceTrailing()
	}
	line, err := msg.LineBytesStrict(true, maxLineLen)
	if err == ircmsg.ErrorBodyTooLong {
		session.logger.Debug("session", "Truncated outgoing", command)
	} else if err != nil {
		session.logger.Warning("session", fmt.Sprintf("Could not send %s", command), err.Error())
		return nil
	}
	return session.write(line)
}

// sendLine sends an already formatted line, adding the terminator.
func (session *Session) sendLine(line string) error {
	return session.write([]byte(line + "\r\n"))
}

func (session *Session) write(line []byte) error {
	if session.logger.IsLoggingRawIO() {
		logline := strings.TrimSuffix(string(line), "\r\n")
		if strings.HasPrefix(logline, "PASS ") {
			logline = "PASS *****"
		}
		session.logger.Debug(logger.TypeOutput, logline)
	}

	session.writeLock.Lock()
	defer session.writeLock.Unlock()
	return session.conn.WriteLine(line)
}
