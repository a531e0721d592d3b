// /home/krylon/go/src/github.com/gcirio/gcal-notifier/objects/response.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-19 18:40:27 krylon>

package objects

//go:generate ffjson response.go

// Response is what the backend sends to a client after processing a request.
type Response struct {
	ID      int64
	Status  bool
	Message string
}
