// /home/krylon/go/src/github.com/gcirio/gcal-notifier/objects/notification.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-22 17:03:12 krylon>

package objects

import "time"

// Urgency levels as defined by the freedesktop.org notification spec.
const (
	UrgencyLow byte = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification is the common interface for items the user should be
// notified about.
type Notification interface {
	Due() time.Time
	IsDue() bool
	Payload() (string, string)
	ActionURL() string
	Urgency() byte
}
