// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/schedule.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 18:21:37 krylon>

package backend

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/logdomain"
	"github.com/gcirio/gcal-notifier/objects"
)

// Receipt records one dispatched notification (or the attempt, if the
// notification daemon was unavailable - either way, the Trigger will not
// fire again).
type Receipt struct {
	UUID       string
	EventID    string
	Title      string
	Reason     string
	Due        time.Time
	Dispatched time.Time
	OK         bool
}

// Schedule is the scheduling core: it owns the event list of the current
// cycle and the set of Triggers that have fired already. It does no I/O
// and keeps no clock of its own, the Daemon feeds it the current time.
//
// Access is not synchronized; the Daemon serializes it behind its own
// lock.
type Schedule struct {
	log    *log.Logger
	window time.Duration
	events []objects.Event
	fired  map[objects.TriggerKey]Receipt
}

// NewSchedule creates a fresh Schedule. A non-positive window selects the
// default firing window.
func NewSchedule(window time.Duration) (*Schedule, error) {
	var (
		err error
		s   = &Schedule{
			window: window,
			fired:  make(map[objects.TriggerKey]Receipt),
		}
	)

	if s.window <= 0 {
		s.window = common.FiringWindow
	}

	if s.log, err = common.GetLogger(logdomain.Scheduler); err != nil {
		return nil, fmt.Errorf("Error creating Logger: %s",
			err.Error())
	}

	return s, nil
} // func NewSchedule(window time.Duration) (*Schedule, error)

// ReplaceEvents replaces the event list wholesale.
func (s *Schedule) ReplaceEvents(events []objects.Event) {
	s.events = events
} // func (s *Schedule) ReplaceEvents(events []objects.Event)

// Events returns the event list of the current cycle.
func (s *Schedule) Events() []objects.Event {
	return s.events
} // func (s *Schedule) Events() []objects.Event

// Evaluate walks the event list and returns the Triggers that are due at
// now - i.e. whose instant has passed no longer than the firing window ago
// and that have not fired yet - along with the earliest strictly-future
// trigger instant (zero if there is none), which the Daemon uses to size
// its sleep.
//
// Triggers that are past due and outside the firing window are skipped
// for good; they do not affect the sleep time either.
func (s *Schedule) Evaluate(now time.Time) ([]objects.Trigger, time.Time) {
	var (
		due  []objects.Trigger
		next time.Time
	)

	for idx := range s.events {
		var (
			err      error
			triggers []objects.Trigger
			ev       = &s.events[idx]
		)

		if triggers, err = ev.Triggers(); err != nil {
			s.log.Printf("[WARN] Skipping event %s (%q): %s\n",
				ev.ID,
				ev.Summary,
				err.Error())
			continue
		}

		for _, t := range triggers {
			if _, fired := s.fired[t.Key()]; fired {
				continue
			}

			var age = now.Sub(t.Timestamp)

			switch {
			case age >= 0 && age < s.window:
				due = append(due, t)
			case t.Timestamp.After(now):
				if next.IsZero() || t.Timestamp.Before(next) {
					next = t.Timestamp
				}
			}
		}
	}

	return due, next
} // func (s *Schedule) Evaluate(now time.Time) ([]objects.Trigger, time.Time)

// MarkFired records that a dispatch was attempted for the given Trigger.
// Failed dispatches are recorded, too, so a broken notification daemon
// does not lead to a spam loop.
func (s *Schedule) MarkFired(t *objects.Trigger, when time.Time, ok bool) {
	s.fired[t.Key()] = Receipt{
		UUID:       common.GetUUID(),
		EventID:    t.EventID,
		Title:      t.Title,
		Reason:     t.Reason,
		Due:        t.Timestamp,
		Dispatched: when,
		OK:         ok,
	}
} // func (s *Schedule) MarkFired(t *objects.Trigger, when time.Time, ok bool)

// WasFired returns true if a dispatch has been attempted for the given
// Trigger during this process run.
func (s *Schedule) WasFired(t *objects.Trigger) bool {
	var _, fired = s.fired[t.Key()]
	return fired
} // func (s *Schedule) WasFired(t *objects.Trigger) bool

// FiredCount returns the number of Triggers that have fired.
func (s *Schedule) FiredCount() int {
	return len(s.fired)
} // func (s *Schedule) FiredCount() int

// Receipts returns the dispatch records of this process run, oldest first.
func (s *Schedule) Receipts() []Receipt {
	var receipts = make([]Receipt, 0, len(s.fired))

	for _, r := range s.fired {
		receipts = append(receipts, r)
	}

	sort.Slice(receipts, func(i, j int) bool {
		return receipts[i].Dispatched.Before(receipts[j].Dispatched)
	})

	return receipts
} // func (s *Schedule) Receipts() []Receipt

// Upcoming returns all future Triggers, soonest first.
func (s *Schedule) Upcoming(now time.Time) []objects.Trigger {
	var upcoming []objects.Trigger

	for idx := range s.events {
		var (
			err      error
			triggers []objects.Trigger
		)

		if triggers, err = s.events[idx].Triggers(); err != nil {
			continue
		}

		for _, t := range triggers {
			if t.Timestamp.After(now) {
				upcoming = append(upcoming, t)
			}
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Timestamp.Before(upcoming[j].Timestamp)
	})

	return upcoming
} // func (s *Schedule) Upcoming(now time.Time) []objects.Trigger

// SleepDuration computes how long the Daemon should sleep before the next
// evaluation: until the next scheduled refresh or the next future trigger,
// whichever comes first, but never a negative duration.
func (s *Schedule) SleepDuration(now, nextRefresh, next time.Time) time.Duration {
	var pause = nextRefresh.Sub(now)

	if !next.IsZero() {
		if d := next.Sub(now); d > 0 && d < pause {
			pause = d
		}
	}

	if pause < 0 {
		pause = 0
	}

	return pause
} // func (s *Schedule) SleepDuration(now, nextRefresh, next time.Time) time.Duration
