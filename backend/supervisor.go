// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/supervisor.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 18:40:29 krylon>

package backend

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/gcirio/gcal-notifier/calendar"
	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/objects"
)

// sysMessage is a notification the Daemon sends about itself, e.g. when
// the scheduler crashed and is being restarted.
type sysMessage struct {
	title   string
	body    string
	urgency byte
	stamp   time.Time
}

func (m *sysMessage) Due() time.Time            { return m.stamp }
func (m *sysMessage) IsDue() bool               { return true }
func (m *sysMessage) Payload() (string, string) { return m.title, m.body }
func (m *sysMessage) ActionURL() string         { return "" }
func (m *sysMessage) Urgency() byte             { return m.urgency }

// superviseLoop keeps the scheduler running: a crashed or failed scheduler
// is restarted after a backoff delay, with a best-effort notification to
// the user in between. Repeated authentication failures are the one thing
// it gives up on - looping forever on a dead token helps nobody.
func (d *Daemon) superviseLoop() {
	defer d.log.Println("[TRACE] superviseLoop is quitting")

	var (
		authFails int
		banner    uint32
		delay     = backoff.NewExponentialBackOff()
	)

	delay.InitialInterval = common.RestartDelay
	delay.MaxElapsedTime = 0

	for d.IsAlive() {
		var (
			err     error
			started = time.Now()
		)

		if err = d.runScheduler(); err == nil {
			return
		}

		if time.Since(started) > time.Minute {
			// It ran fine for a while, start counting afresh.
			authFails = 0
			delay.Reset()
		}

		if calendar.IsAuthError(err) {
			authFails++

			if authFails >= common.MaxAuthRetries {
				d.log.Printf("[CRITICAL] Giving up after %d consecutive authentication failures: %s\n",
					authFails,
					err.Error())

				var msg = &sysMessage{
					title:   fmt.Sprintf("%s is giving up", common.AppName),
					body:    fmt.Sprintf("Authentication keeps failing: %s", err.Error()),
					urgency: objects.UrgencyCritical,
					stamp:   time.Now(),
				}

				d.notify(msg) // nolint: errcheck

				d.lock.Lock()
				d.failed = true
				d.lock.Unlock()

				d.Banish() // nolint: errcheck
				return
			}
		} else {
			authFails = 0
		}

		var pause = delay.NextBackOff()

		d.log.Printf("[CRITICAL] Scheduler failed: %s -- restarting in %s\n",
			err.Error(),
			pause)

		if banner != 0 {
			d.closeNotification(banner) // nolint: errcheck
		}

		var msg = &sysMessage{
			title:   fmt.Sprintf("%s error", common.AppName),
			body:    fmt.Sprintf("%s\nRestarting in %s...", err.Error(), pause),
			urgency: objects.UrgencyCritical,
			stamp:   time.Now(),
		}

		if banner, err = d.notify(msg); err != nil {
			// Best effort only. If even the crash notification
			// fails, the log has to do.
			banner = 0
		}

		select {
		case <-time.After(pause):
		case <-d.stopQ:
			return
		}

		if banner != 0 {
			d.closeNotification(banner) // nolint: errcheck
			banner = 0
		}
	}
} // func (d *Daemon) superviseLoop()

// runScheduler runs the scheduler loop, converting a panic into a regular
// error for the supervisor to handle.
func (d *Daemon) runScheduler() (err error) {
	defer func() {
		if x := recover(); x != nil {
			err = fmt.Errorf("scheduler panicked: %v", x)
		}
	}()

	return d.scheduleLoop()
} // func (d *Daemon) runScheduler() (err error)
