// /home/krylon/go/src/github.com/gcirio/gcal-notifier/objects/trigger.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-24 20:16:30 krylon>

package objects

import "time"

//go:generate ffjson trigger.go

// Trigger pairs an Event with one absolute instant at which a notification
// is to fire. Two Triggers are distinct iff their (EventID, Timestamp)
// pairs differ, even when they belong to the same Event.
type Trigger struct {
	EventID   string
	Title     string
	Reason    string
	Timestamp time.Time
	URL       string
}

// TriggerKey is the identity of a Trigger, used to record which
// notifications have fired already.
type TriggerKey struct {
	EventID string
	Due     int64
}

// Key returns the Trigger's identity.
func (t *Trigger) Key() TriggerKey {
	return TriggerKey{
		EventID: t.EventID,
		Due:     t.Timestamp.Unix(),
	}
} // func (t *Trigger) Key() TriggerKey

// Due returns the instant the Trigger fires at.
func (t *Trigger) Due() time.Time {
	return t.Timestamp
} // func (t *Trigger) Due() time.Time

// IsDue returns true if the Trigger's due time has passed.
func (t *Trigger) IsDue() bool {
	return !t.Timestamp.After(time.Now())
} // func (t *Trigger) IsDue() bool

// Payload returns the title and body of the notification to display.
func (t *Trigger) Payload() (string, string) {
	var body = t.Reason

	if t.URL != "" {
		body += "\nClick to join the meeting..."
	}

	return t.Title, body
} // func (t *Trigger) Payload() (string, string)

// ActionURL returns the URL to open when the user activates the
// notification, or an empty string.
func (t *Trigger) ActionURL() string {
	return t.URL
} // func (t *Trigger) ActionURL() string

// Urgency returns the urgency level for the notification daemon.
func (t *Trigger) Urgency() byte {
	return UrgencyNormal
} // func (t *Trigger) Urgency() byte
