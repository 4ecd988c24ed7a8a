// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okzk/sdnotify"

	"github.com/oxygen-irc/oxygen/irc/factoids"
	"github.com/oxygen-irc/oxygen/irc/logger"
	"github.com/oxygen-irc/oxygen/irc/utils"
)

const (
	quitMessage = "Shutting down"
)

// Bot runs sessions against the configured server, redialing after failures
// if a reconnect delay is configured, until it's told to quit.
type Bot struct {
	config   *Config
	factoids *factoids.Store
	logger   *logger.Manager

	// for tests
	dial func(*Config) (IRCConn, error)

	signals  chan os.Signal
	quit     chan struct{}
	quitOnce sync.Once
	quitting atomic.Bool

	sessionMutex sync.Mutex
	session      *Session
}

func NewBot(config *Config, store *factoids.Store, logger *logger.Manager) *Bot {
	return &Bot{
		config:   config,
		factoids: store,
		logger:   logger,
		dial:     Dial,
		signals:  make(chan os.Signal, len(utils.ExitSignals)),
		quit:     make(chan struct{}),
	}
}

// Run connects and runs sessions. It returns nil after Quit (or an exit signal),
// and the last error if the connection ends and reconnecting is disabled.
func (bot *Bot) Run() error {
	signal.Notify(bot.signals, utils.ExitSignals...)
	defer signal.Stop(bot.signals)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case sig := <-bot.signals:
			bot.logger.Info("bot", "Received signal", sig.String())
			bot.Quit(quitMessage)
		case <-done:
		}
	}()

	for {
		err := bot.runSession()
		if bot.quitting.Load() {
			return bot.stopped()
		}
		bot.logger.Error("bot", "Session ended", err.Error())

		delay := bot.config.Network.ReconnectDelay
		if delay <= 0 {
			return err
		}
		bot.logger.Info("bot", fmt.Sprintf("Reconnecting in %v", delay))
		select {
		case <-time.After(delay):
		case <-bot.quit:
			return bot.stopped()
		}
	}
}

func (bot *Bot) stopped() error {
	sdnotify.Stopping()
	bot.logger.Info("bot", "Quit")
	return nil
}

func (bot *Bot) runSession() error {
	bot.logger.Info("connect", "Connecting to", bot.describeServer())
	conn, err := bot.dial(bot.config)
	if err != nil {
		return fmt.Errorf("Could not connect: %w", err)
	}
	defer conn.Close()
	bot.logger.Info("connect", "Connected to", bot.describeServer())

	session := NewSession(bot.config, conn, bot.factoids, bot.logger)
	session.onRegistered = func() {
		if err := sdnotify.Ready(); err != nil {
			bot.logger.Debug("bot", "sdnotify", err.Error())
		}
	}
	bot.setSession(session)
	defer bot.setSession(nil)
	if bot.quitting.Load() {
		session.Quit(quitMessage)
	}

	err = session.Run()
	if errors.Is(err, ErrConnectionClosed) {
		bot.logger.Warning("connect", "Server closed the connection")
	}
	return err
}

// Quit ends the current session with a QUIT and stops Run. Safe to call
// from any goroutine.
func (bot *Bot) Quit(reason string) {
	bot.quitting.Store(true)
	bot.quitOnce.Do(func() { close(bot.quit) })

	bot.sessionMutex.Lock()
	session := bot.session
	bot.sessionMutex.Unlock()
	if session != nil {
		session.Quit(reason)
	}
}

func (bot *Bot) setSession(session *Session) {
	bot.sessionMutex.Lock()
	bot.session = session
	bot.sessionMutex.Unlock()
}

func (bot *Bot) describeServer() string {
	network := &bot.config.Network
	if network.Websocket.URL != "" {
		return network.Websocket.URL
	}
	return network.Address()
}
