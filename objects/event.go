// /home/krylon/go/src/github.com/gcirio/gcal-notifier/objects/event.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-24 20:14:52 krylon>

// Package objects provides the data types used by the application.
package objects

import (
	"errors"
	"fmt"
	"time"

	"github.com/gcirio/gcal-notifier/common"
)

//go:generate ffjson event.go

// ErrMalformedEvent indicates an event whose start time cannot be
// determined. Such events are skipped, they do not abort an evaluation
// cycle.
var ErrMalformedEvent = errors.New("event has no usable start time")

// methodPopup is the only reminder delivery method that results in a
// desktop notification. Email reminders et al are the provider's business.
const methodPopup = "popup"

// EventTime is the calendar provider's representation of an event's start:
// either a full timestamp (DateTime) or, for all-day events, a bare
// calendar date.
type EventTime struct {
	DateTime string
	Date     string
	TimeZone string
}

// ReminderOverride is one reminder rule attached to an event, firing
// Minutes before the event starts via the given delivery method.
type ReminderOverride struct {
	Method  string
	Minutes int64
}

// Reminders is an event's reminder configuration. If UseDefault is set,
// the calendar's default reminders apply and Overrides is to be ignored.
type Reminders struct {
	UseDefault bool
	Overrides  []ReminderOverride
}

// Event is an immutable snapshot of a calendar event, valid for one
// evaluation cycle. The event list is replaced wholesale on every fetch,
// Events are never modified in place.
type Event struct {
	ID          string
	CalendarID  string
	Summary     string
	HangoutLink string
	Start       EventTime
	Reminders   Reminders
}

// Title returns the Event's summary, or a placeholder if it has none.
func (e *Event) Title() string {
	if e.Summary == "" {
		return "No Title"
	}

	return e.Summary
} // func (e *Event) Title() string

// StartTime normalizes the Event's start representation to a single
// offset-aware timestamp. A bare date (i.e. an all-day event) is taken to
// mean midnight UTC on that date.
func (e *Event) StartTime() (time.Time, error) {
	var (
		err error
		t   time.Time
	)

	switch {
	case e.Start.DateTime != "":
		if t, err = time.Parse(time.RFC3339, e.Start.DateTime); err != nil {
			return time.Time{}, fmt.Errorf("%w: cannot parse start time %q: %s",
				ErrMalformedEvent,
				e.Start.DateTime,
				err.Error())
		}
	case e.Start.Date != "":
		if t, err = time.Parse(common.TimestampFormatDate, e.Start.Date); err != nil {
			return time.Time{}, fmt.Errorf("%w: cannot parse date %q: %s",
				ErrMalformedEvent,
				e.Start.Date,
				err.Error())
		}

		t = t.UTC()
	default:
		return time.Time{}, ErrMalformedEvent
	}

	return t, nil
} // func (e *Event) StartTime() (time.Time, error)

// Triggers expands the Event into the instants at which notifications are
// to fire: one Trigger for the start time itself, plus one per popup
// reminder override. Default reminders are not materialized, their offsets
// are not part of the event record.
func (e *Event) Triggers() ([]Trigger, error) {
	var (
		err   error
		start time.Time
	)

	if start, err = e.StartTime(); err != nil {
		return nil, err
	}

	var triggers = make([]Trigger, 1, len(e.Reminders.Overrides)+1)

	triggers[0] = Trigger{
		EventID:   e.ID,
		Title:     e.Title(),
		Reason:    "event starting",
		Timestamp: start,
		URL:       e.HangoutLink,
	}

	if e.Reminders.UseDefault {
		return triggers, nil
	}

	for _, o := range e.Reminders.Overrides {
		if o.Method != methodPopup {
			continue
		}

		triggers = append(triggers, Trigger{
			EventID:   e.ID,
			Title:     e.Title(),
			Reason:    fmt.Sprintf("reminder: %d minutes before", o.Minutes),
			Timestamp: start.Add(time.Minute * time.Duration(-o.Minutes)),
			URL:       e.HangoutLink,
		})
	}

	return triggers, nil
} // func (e *Event) Triggers() ([]Trigger, error)
