// /home/krylon/go/src/github.com/gcirio/gcal-notifier/calendar/calendar.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 17:02:19 krylon>

// Package calendar talks to the Google Calendar API. It authenticates using
// OAuth2 installed-app credentials, fetches events for a given calendar and
// time window, and maps the provider's records to the application's own
// types.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/logdomain"
	"github.com/gcirio/gcal-notifier/objects"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps the connection to the Google Calendar API.
type Client struct {
	log *log.Logger
	svc *gcal.Service
}

// NewClient authenticates with the Calendar API and returns a fresh Client.
// Credentials are read from common.CredentialPath, the OAuth token is
// cached at common.TokenPath. If no cached token exists, an interactive
// authorization step is performed on the terminal.
func NewClient(ctx context.Context) (*Client, error) {
	var (
		err error
		c   = new(Client)
		src oauth2.TokenSource
	)

	if c.log, err = common.GetLogger(logdomain.Calendar); err != nil {
		fmt.Printf("ERROR initializing Logger: %s\n",
			err.Error())
		return nil, err
	}

	c.log.Println("[INFO] Authenticating with the Google Calendar API")

	if src, err = tokenSource(ctx, c.log); err != nil {
		c.log.Printf("[ERROR] Cannot obtain OAuth token: %s\n",
			err.Error())
		return nil, err
	} else if c.svc, err = gcal.NewService(ctx, option.WithTokenSource(src)); err != nil {
		c.log.Printf("[ERROR] Cannot create Calendar service: %s\n",
			err.Error())
		return nil, err
	}

	return c, nil
} // func NewClient(ctx context.Context) (*Client, error)

// FetchEvents retrieves the events of one calendar for the given time
// window, recurring events expanded, ordered by start time.
func (c *Client) FetchEvents(ctx context.Context, calendarID string, tmin, tmax time.Time) ([]objects.Event, error) {
	var (
		err error
		res *gcal.Events
	)

	c.log.Printf("[DEBUG] Updating events for calendar %s\n",
		calendarID)

	if res, err = c.svc.Events.List(calendarID).
		TimeMin(tmin.UTC().Format(time.RFC3339)).
		TimeMax(tmax.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do(); err != nil {
		return nil, fmt.Errorf("cannot fetch events for calendar %s: %w",
			calendarID,
			err)
	}

	var events = make([]objects.Event, 0, len(res.Items))

	for _, item := range res.Items {
		events = append(events, cvtEvent(calendarID, item))
	}

	return events, nil
} // func (c *Client) FetchEvents(ctx context.Context, calendarID string, tmin, tmax time.Time) ([]objects.Event, error)

// ListCalendars returns the IDs of all calendars visible to the
// authenticated user.
func (c *Client) ListCalendars(ctx context.Context) ([]string, error) {
	var (
		err error
		res *gcal.CalendarList
	)

	if res, err = c.svc.CalendarList.List().Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("cannot list calendars: %w", err)
	}

	var ids = make([]string, 0, len(res.Items))

	for _, item := range res.Items {
		ids = append(ids, item.Id)
	}

	return ids, nil
} // func (c *Client) ListCalendars(ctx context.Context) ([]string, error)

// cvtEvent maps one provider record to an objects.Event. An event without
// a reminder block is treated as using the calendar's default reminders.
func cvtEvent(calendarID string, item *gcal.Event) objects.Event {
	var ev = objects.Event{
		ID:          item.Id,
		CalendarID:  calendarID,
		Summary:     item.Summary,
		HangoutLink: item.HangoutLink,
	}

	if item.Start != nil {
		ev.Start = objects.EventTime{
			DateTime: item.Start.DateTime,
			Date:     item.Start.Date,
			TimeZone: item.Start.TimeZone,
		}
	}

	if item.Reminders == nil {
		ev.Reminders.UseDefault = true
		return ev
	}

	ev.Reminders.UseDefault = item.Reminders.UseDefault

	for _, o := range item.Reminders.Overrides {
		ev.Reminders.Overrides = append(ev.Reminders.Overrides,
			objects.ReminderOverride{
				Method:  o.Method,
				Minutes: o.Minutes,
			})
	}

	return ev
} // func cvtEvent(calendarID string, item *gcal.Event) objects.Event

// IsAuthError returns true if err indicates a credential problem that
// re-fetching will not fix. Such errors escape to the supervisor, anything
// else is treated as transient and retried on the next cycle.
func IsAuthError(err error) bool {
	var (
		gerr *googleapi.Error
		rerr *oauth2.RetrieveError
	)

	if errors.As(err, &gerr) {
		return gerr.Code == 401 || gerr.Code == 403
	} else if errors.As(err, &rerr) {
		return true
	}

	return false
} // func IsAuthError(err error) bool

// IsTransient returns true if err looks like a temporary condition: a
// network hiccup or a provider-side failure.
func IsTransient(err error) bool {
	var (
		gerr *googleapi.Error
		uerr *url.Error
	)

	if errors.As(err, &gerr) {
		return gerr.Code >= 500
	} else if errors.As(err, &uerr) {
		return true
	}

	return !IsAuthError(err)
} // func IsTransient(err error) bool
