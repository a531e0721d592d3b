// /home/krylon/go/src/github.com/gcirio/gcal-notifier/logdomain/logdomain.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-19 09:21:35 krylon>

// Package logdomain provides constants to identify the various
// parts of the application that need to do logging.
package logdomain

//go:generate stringer -type=ID

// ID represents a log source.
type ID uint8

// These constants identify the various log sources.
const (
	Common ID = iota
	Backend
	Calendar
	Scheduler
	Notify
	Web
)

// AllDomains returns a slice of all the known log sources.
func AllDomains() []ID {
	return []ID{
		Common,
		Backend,
		Calendar,
		Scheduler,
		Notify,
		Web,
	}
} // func AllDomains() []ID
