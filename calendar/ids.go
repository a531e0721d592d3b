// /home/krylon/go/src/github.com/gcirio/gcal-notifier/calendar/ids.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-21 19:28:55 krylon>

package calendar

import (
	"fmt"
	"os"
	"strings"
)

// ReadCalendarIDs reads the list of calendar IDs to watch from the given
// file, one ID per line. Blank lines and lines starting with '#' are
// skipped. The list is read once at startup and immutable afterwards.
func ReadCalendarIDs(path string) ([]string, error) {
	var (
		err error
		raw []byte
	)

	if raw, err = os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("cannot read calendar list %s: %w",
			path,
			err)
	}

	var (
		lines = strings.Split(string(raw), "\n")
		ids   = make([]string, 0, len(lines))
	)

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ids = append(ids, line)
	}

	return ids, nil
} // func ReadCalendarIDs(path string) ([]string, error)
