// /home/krylon/go/src/github.com/gcirio/gcal-notifier/objects/02_trigger_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-24 21:11:02 krylon>

package objects

import (
	"testing"
	"time"
)

func TestTriggers(t *testing.T) {
	var start = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

	type expectation struct {
		reason string
		stamp  time.Time
	}

	type testCase struct {
		ev          Event
		expect      []expectation
		expectError bool
	}

	var cases = []testCase{
		// No overrides, provider default: only the start trigger.
		testCase{
			ev: Event{
				ID:        "ev001",
				Summary:   "Standup",
				Start:     EventTime{DateTime: "2024-06-01T15:00:00Z"},
				Reminders: Reminders{UseDefault: true},
			},
			expect: []expectation{
				expectation{"event starting", start},
			},
		},
		// One popup reminder, 15 minutes ahead.
		testCase{
			ev: Event{
				ID:      "ev002",
				Summary: "Review",
				Start:   EventTime{DateTime: "2024-06-01T15:00:00Z"},
				Reminders: Reminders{
					Overrides: []ReminderOverride{
						ReminderOverride{Method: "popup", Minutes: 15},
					},
				},
			},
			expect: []expectation{
				expectation{"event starting", start},
				expectation{"reminder: 15 minutes before", start.Add(time.Minute * -15)},
			},
		},
		// Two popup reminders, email is ignored.
		testCase{
			ev: Event{
				ID:      "ev003",
				Summary: "Planning",
				Start:   EventTime{DateTime: "2024-06-01T15:00:00Z"},
				Reminders: Reminders{
					Overrides: []ReminderOverride{
						ReminderOverride{Method: "popup", Minutes: 15},
						ReminderOverride{Method: "email", Minutes: 60},
						ReminderOverride{Method: "popup", Minutes: 5},
					},
				},
			},
			expect: []expectation{
				expectation{"event starting", start},
				expectation{"reminder: 15 minutes before", start.Add(time.Minute * -15)},
				expectation{"reminder: 5 minutes before", start.Add(time.Minute * -5)},
			},
		},
		// UseDefault suppresses overrides even if present.
		testCase{
			ev: Event{
				ID:      "ev004",
				Summary: "1:1",
				Start:   EventTime{DateTime: "2024-06-01T15:00:00Z"},
				Reminders: Reminders{
					UseDefault: true,
					Overrides: []ReminderOverride{
						ReminderOverride{Method: "popup", Minutes: 30},
					},
				},
			},
			expect: []expectation{
				expectation{"event starting", start},
			},
		},
		testCase{
			ev: Event{
				ID:      "ev005",
				Summary: "Mystery meeting",
			},
			expectError: true,
		},
	}

	for _, c := range cases {
		var (
			err      error
			triggers []Trigger
		)

		if triggers, err = c.ev.Triggers(); err != nil {
			if !c.expectError {
				t.Errorf("Unexpected error expanding Event %s: %s",
					c.ev.ID,
					err.Error())
			}

			continue
		} else if c.expectError {
			t.Errorf("Expanding Event %s should have failed", c.ev.ID)
			continue
		} else if len(triggers) != len(c.expect) {
			t.Errorf("Unexpected number of Triggers for Event %s: %d (expected %d)",
				c.ev.ID,
				len(triggers),
				len(c.expect))
			continue
		}

		for idx, x := range c.expect {
			var tr = &triggers[idx]

			if tr.Reason != x.reason {
				t.Errorf("Trigger %d of Event %s has reason %q, expected %q",
					idx,
					c.ev.ID,
					tr.Reason,
					x.reason)
			}

			if !tr.Timestamp.Equal(x.stamp) {
				t.Errorf("Trigger %d of Event %s fires at %s, expected %s",
					idx,
					c.ev.ID,
					tr.Timestamp.Format(time.RFC3339),
					x.stamp.Format(time.RFC3339))
			}

			if tr.EventID != c.ev.ID {
				t.Errorf("Trigger %d carries EventID %q, expected %q",
					idx,
					tr.EventID,
					c.ev.ID)
			}
		}
	}
} // func TestTriggers(t *testing.T)

func TestTriggerKey(t *testing.T) {
	var (
		stamp = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
		t1    = Trigger{EventID: "ev001", Timestamp: stamp}
		t2    = Trigger{EventID: "ev001", Timestamp: stamp.Add(time.Minute * -15)}
		t3    = Trigger{EventID: "ev002", Timestamp: stamp}
		t4    = Trigger{EventID: "ev001", Timestamp: stamp}
	)

	if t1.Key() == t2.Key() {
		t.Errorf("Triggers at different instants must have distinct keys: %v",
			t1.Key())
	}

	if t1.Key() == t3.Key() {
		t.Errorf("Triggers of different events must have distinct keys: %v",
			t1.Key())
	}

	if t1.Key() != t4.Key() {
		t.Error("Identical (event, instant) pairs must map to the same key")
	}
} // func TestTriggerKey(t *testing.T)
