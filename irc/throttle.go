// Copyright (c) 2018 Shivaram Lingamneni <slingamn@cs.stanford.edu>
// Copyright (c) 2026 The Oxygen Authors
// released under the MIT license

package irc

import (
	"time"
)

// Throttle spaces out the bot's own chat replies so a burst of commands
// doesn't get it kicked for flooding. It lets BurstLimit replies through
// immediately, then sleeps before each reply until they are at least
// Window/MessagesPerWindow apart. A quiet period of Cooldown resets it.
// Sleeping while one batch of input is handled is capped at MaxBatchDelay,
// so a long reply can't hold up the PONG for a PING in the next batch.

type throttleState uint

const (
	throttleBursting throttleState = iota
	throttleThrottled
)

// not threadsafe; only the session loop sends replies
type Throttle struct {
	config    ThrottleConfig
	nowFunc   func() time.Time
	sleepFunc func(time.Duration)

	state      throttleState
	burstCount uint // replies sent in the current burst
	lastSend   time.Time
	batchSlept time.Duration
}

func NewThrottle(config ThrottleConfig) *Throttle {
	return &Throttle{
		config:    config,
		nowFunc:   time.Now,
		sleepFunc: time.Sleep,
		state:     throttleBursting,
	}
}

// StartBatch resets the per-batch sleep allowance.
func (th *Throttle) StartBatch() {
	th.batchSlept = 0
}

// Wait is called before each reply and sleeps if the reply must be delayed.
func (th *Throttle) Wait() {
	if !th.config.Enabled {
		return
	}

	now := th.nowFunc()
	// a zero lastSend counts as "very far in the past"
	elapsed := now.Sub(th.lastSend)
	th.lastSend = now

	if th.state == throttleBursting {
		if elapsed > th.config.Cooldown {
			th.burstCount = 0
		}

		th.burstCount++
		if th.burstCount <= th.config.BurstLimit {
			return
		}
		th.burstCount = 0
		th.state = throttleThrottled
	}

	if elapsed > th.config.Cooldown {
		th.state = throttleBursting
		return
	}
	sleepDuration := time.Duration((int64(th.config.Window) / int64(th.config.MessagesPerWindow)) - int64(elapsed))
	if th.config.MaxBatchDelay > 0 {
		if remaining := th.config.MaxBatchDelay - th.batchSlept; remaining < sleepDuration {
			sleepDuration = remaining
		}
	}
	if sleepDuration > 0 {
		th.sleepFunc(sleepDuration)
		th.batchSlept += sleepDuration
		th.lastSend = th.nowFunc()
	}
}
