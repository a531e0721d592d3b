// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/01_schedule_test.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 19:02:46 krylon>

package backend

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/objects"
)

var sched *Schedule

// refT is the fixed reference instant all schedule tests work from.
var refT = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func mkEvent(id string, start time.Time, popupMinutes ...int64) objects.Event {
	var ev = objects.Event{
		ID:      id,
		Summary: fmt.Sprintf("Test event %s", id),
		Start:   objects.EventTime{DateTime: start.Format(time.RFC3339)},
	}

	if len(popupMinutes) == 0 {
		ev.Reminders.UseDefault = true
		return ev
	}

	for _, m := range popupMinutes {
		ev.Reminders.Overrides = append(ev.Reminders.Overrides,
			objects.ReminderOverride{Method: "popup", Minutes: m})
	}

	return ev
} // func mkEvent(id string, start time.Time, popupMinutes ...int64) objects.Event

func TestScheduleCreate(t *testing.T) {
	var (
		err      error
		testPath = filepath.Join(
			os.TempDir(),
			fmt.Sprintf("gcal_notifier_test_%d",
				time.Now().Unix()))
	)

	if err = common.SetBaseDir(testPath); err != nil {
		t.Fatalf("Cannot set BaseDir to %s: %s",
			testPath,
			err.Error())
	}

	if sched, err = NewSchedule(0); err != nil {
		sched = nil
		t.Fatalf("Cannot create Schedule: %s",
			err.Error())
	} else if sched.window != common.FiringWindow {
		t.Errorf("Schedule has firing window %s, expected the default %s",
			sched.window,
			common.FiringWindow)
	}
} // func TestScheduleCreate(t *testing.T)

func TestEvaluateStartDue(t *testing.T) {
	if sched == nil {
		t.SkipNow()
	}

	sched.ReplaceEvents([]objects.Event{mkEvent("ev001", refT)})

	var due, next = sched.Evaluate(refT)

	if len(due) != 1 {
		t.Fatalf("At the start instant exactly, expected 1 due Trigger, got %d",
			len(due))
	} else if due[0].Reason != "event starting" {
		t.Errorf("Unexpected reason on start trigger: %q",
			due[0].Reason)
	} else if !next.IsZero() {
		t.Errorf("No future trigger exists, but next is %s",
			next.Format(time.RFC3339))
	}

	// 30 seconds in, the trigger is still inside the firing window.
	if due, _ = sched.Evaluate(refT.Add(time.Second * 30)); len(due) != 1 {
		t.Errorf("30s after the instant, expected 1 due Trigger, got %d",
			len(due))
	}

	// 61 seconds in, it is outside the window: skipped for good, and it
	// must not push the next-trigger instant either.
	if due, next = sched.Evaluate(refT.Add(time.Second * 61)); len(due) != 0 {
		t.Errorf("61s after the instant, expected 0 due Triggers, got %d",
			len(due))
	} else if !next.IsZero() {
		t.Errorf("A missed trigger must not be queued, but next is %s",
			next.Format(time.RFC3339))
	}
} // func TestEvaluateStartDue(t *testing.T)

func TestEvaluateDedup(t *testing.T) {
	if sched == nil {
		t.SkipNow()
	}

	sched.ReplaceEvents([]objects.Event{mkEvent("ev002", refT)})

	var due, _ = sched.Evaluate(refT)

	if len(due) != 1 {
		t.Fatalf("First cycle: expected 1 due Trigger, got %d",
			len(due))
	}

	sched.MarkFired(&due[0], refT, true)

	if !sched.WasFired(&due[0]) {
		t.Error("Trigger is not in the fired set after MarkFired")
	}

	// Second cycle 30 seconds later: still inside the firing window,
	// but the fired set must prevent a duplicate dispatch.
	if due, _ = sched.Evaluate(refT.Add(time.Second * 30)); len(due) != 0 {
		t.Errorf("Second cycle: expected 0 due Triggers, got %d",
			len(due))
	}
} // func TestEvaluateDedup(t *testing.T)

func TestMarkFiredOnFailure(t *testing.T) {
	if sched == nil {
		t.SkipNow()
	}

	sched.ReplaceEvents([]objects.Event{mkEvent("ev003", refT)})

	var due, _ = sched.Evaluate(refT)

	if len(due) != 1 {
		t.Fatalf("Expected 1 due Trigger, got %d", len(due))
	}

	// A failed dispatch is recorded as well; no retry loop.
	sched.MarkFired(&due[0], refT, false)

	if due, _ = sched.Evaluate(refT.Add(time.Second * 10)); len(due) != 0 {
		t.Errorf("Failed dispatch must not be retried, but got %d due Triggers",
			len(due))
	}

	var (
		receipts = sched.Receipts()
		found    bool
	)

	for _, r := range receipts {
		if r.EventID == "ev003" {
			found = true

			if r.OK {
				t.Error("Receipt of the failed dispatch claims success")
			}
		}
	}

	if !found {
		t.Error("No Receipt was recorded for ev003")
	}
} // func TestMarkFiredOnFailure(t *testing.T)

func TestSleepDuration(t *testing.T) {
	if sched == nil {
		t.SkipNow()
	}

	type testCase struct {
		nextRefresh time.Time
		next        time.Time
		expect      time.Duration
	}

	var cases = []testCase{
		// Next trigger before the next refresh.
		testCase{
			nextRefresh: refT.Add(time.Second * 400),
			next:        refT.Add(time.Second * 90),
			expect:      time.Second * 90,
		},
		// No future trigger: sleep until the refresh.
		testCase{
			nextRefresh: refT.Add(time.Second * 400),
			expect:      time.Second * 400,
		},
		// Refresh comes first.
		testCase{
			nextRefresh: refT.Add(time.Second * 60),
			next:        refT.Add(time.Second * 90),
			expect:      time.Second * 60,
		},
		// Overdue refresh: never sleep a negative duration.
		testCase{
			nextRefresh: refT.Add(time.Second * -10),
			expect:      0,
		},
	}

	for idx, c := range cases {
		if pause := sched.SleepDuration(refT, c.nextRefresh, c.next); pause != c.expect {
			t.Errorf("Case %d: unexpected sleep duration %s (expected %s)",
				idx,
				pause,
				c.expect)
		}
	}
} // func TestSleepDuration(t *testing.T)

// The end-to-end scenario: two events, one starting in 30 seconds without
// reminders, one starting in 20 minutes with a 15-minute popup reminder.
func TestScenario(t *testing.T) {
	if sched == nil {
		t.SkipNow()
	}

	var (
		err error
		s   *Schedule
	)

	if s, err = NewSchedule(0); err != nil {
		t.Fatalf("Cannot create Schedule: %s",
			err.Error())
	}

	var nextRefresh = refT.Add(common.UpdateInterval)

	s.ReplaceEvents([]objects.Event{
		mkEvent("near", refT.Add(time.Second*30)),
		mkEvent("far", refT.Add(time.Minute*20), 15),
	})

	// First cycle: both triggers are in the future, nothing fires, and
	// we sleep until the first event starts.
	var due, next = s.Evaluate(refT)

	if len(due) != 0 {
		t.Fatalf("First cycle: expected 0 due Triggers, got %d",
			len(due))
	} else if !next.Equal(refT.Add(time.Second * 30)) {
		t.Errorf("First cycle: next trigger at %s, expected %s",
			next.Format(time.RFC3339),
			refT.Add(time.Second*30).Format(time.RFC3339))
	}

	if pause := s.SleepDuration(refT, nextRefresh, next); pause != time.Second*30 {
		t.Errorf("First cycle: sleep is %s, expected 30s",
			pause)
	}

	// Second cycle, 30 seconds later: the first event is starting now;
	// the next wake-up is the far event's 15-minute reminder.
	var now = refT.Add(time.Second * 30)

	if due, next = s.Evaluate(now); len(due) != 1 {
		t.Fatalf("Second cycle: expected 1 due Trigger, got %d",
			len(due))
	} else if due[0].EventID != "near" {
		t.Errorf("Second cycle: due Trigger belongs to %s, expected \"near\"",
			due[0].EventID)
	} else if due[0].Reason != "event starting" {
		t.Errorf("Second cycle: unexpected reason %q",
			due[0].Reason)
	}

	s.MarkFired(&due[0], now, true)

	var reminderAt = refT.Add(time.Minute * 5)

	if !next.Equal(reminderAt) {
		t.Errorf("Second cycle: next trigger at %s, expected the reminder at %s",
			next.Format(time.RFC3339),
			reminderAt.Format(time.RFC3339))
	}

	if pause := s.SleepDuration(now, nextRefresh, next); pause != time.Minute*4+time.Second*30 {
		t.Errorf("Second cycle: sleep is %s, expected 4m30s",
			pause)
	}

	// Third cycle, immediately after: no duplicate for the fired
	// trigger.
	if due, _ = s.Evaluate(now.Add(time.Second * 5)); len(due) != 0 {
		t.Errorf("Third cycle: expected 0 due Triggers, got %d",
			len(due))
	}
} // func TestScenario(t *testing.T)
