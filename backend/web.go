// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/web.go
// -*- mode: go; coding: utf-8; -*-
// Created on 21. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 18:47:16 krylon>

package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/objects"
	"github.com/pquerna/ffjson/ffjson"
)

// The web interface is read-only except for /refresh; it exists so one can
// peek at the scheduler's state without grepping the log.
func (d *Daemon) initWebHandlers() error {
	d.router.HandleFunc("/status", d.handleStatus)
	d.router.HandleFunc("/events/all", d.handleEventGetAll)
	d.router.HandleFunc("/triggers/pending", d.handleTriggerGetPending)
	d.router.HandleFunc("/triggers/fired", d.handleTriggerGetFired)
	d.router.HandleFunc("/calendar/all", d.handleCalendarGetAll)
	d.router.HandleFunc("/refresh", d.handleRefresh)

	return nil
} // func (d *Daemon) initWebHandlers() error

func (d *Daemon) serveHTTP() {
	var err error

	defer d.log.Println("[INFO] Web server is shutting down")

	d.log.Printf("[INFO] Web interface is going online at %s\n", d.web.Addr)

	if err = d.web.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			d.log.Printf("[ERROR] ListenAndServe returned an error: %s\n",
				err.Error())
		} else {
			d.log.Println("[INFO] HTTP Server has shut down.")
		}
	}
} // func (d *Daemon) serveHTTP()

func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var response = objects.Response{ID: d.getID()}

	d.lock.RLock()
	response.Message = fmt.Sprintf("%s %s, up since %s, watching %d calendar(s), %d event(s) loaded, %d notification(s) dispatched",
		common.AppName,
		common.Version,
		d.started.Format(common.TimestampFormat),
		len(d.calendars),
		len(d.sched.Events()),
		d.sched.FiredCount())
	d.lock.RUnlock()

	response.Status = true

	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleStatus(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleEventGetAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		buf []byte
	)

	d.lock.RLock()
	var events = d.sched.Events()
	d.lock.RUnlock()

	if buf, err = ffjson.Marshal(events); err != nil {
		d.log.Printf("[ERROR] Cannot serialize event list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleEventGetAll(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleTriggerGetPending(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		buf []byte
	)

	d.lock.RLock()
	var upcoming = d.sched.Upcoming(time.Now().UTC())
	d.lock.RUnlock()

	if buf, err = ffjson.Marshal(upcoming); err != nil {
		d.log.Printf("[ERROR] Cannot serialize trigger list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleTriggerGetPending(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleTriggerGetFired(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err error
		buf []byte
	)

	d.lock.RLock()
	var receipts = d.sched.Receipts()
	d.lock.RUnlock()

	if buf, err = ffjson.Marshal(receipts); err != nil {
		d.log.Printf("[ERROR] Cannot serialize receipt list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleTriggerGetFired(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleCalendarGetAll(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var (
		err         error
		buf         []byte
		ids         []string
		ctx, cancel = context.WithTimeout(r.Context(), fetchTimeout)
	)
	defer cancel()

	if ids, err = d.cal.ListCalendars(ctx); err != nil {
		var response = objects.Response{
			ID:      d.getID(),
			Message: err.Error(),
		}

		d.log.Printf("[ERROR] Cannot list calendars: %s\n",
			err.Error())
		d.sendResponseJSON(w, &response)
		return
	}

	if buf, err = ffjson.Marshal(ids); err != nil {
		d.log.Printf("[ERROR] Cannot serialize calendar list: %s\n",
			err.Error())
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) handleCalendarGetAll(w http.ResponseWriter, r *http.Request)

func (d *Daemon) handleRefresh(w http.ResponseWriter, r *http.Request) {
	d.log.Printf("[TRACE] Handle %s from %s\n",
		r.URL,
		r.RemoteAddr)

	var response = objects.Response{ID: d.getID()}

	select {
	case d.wakeQ <- struct{}{}:
		response.Status = true
		response.Message = "Refresh scheduled"
	default:
		// A wake-up is pending already, that is good enough.
		response.Status = true
		response.Message = "Refresh is pending already"
	}

	d.sendResponseJSON(w, &response)
} // func (d *Daemon) handleRefresh(w http.ResponseWriter, r *http.Request)

//////////////////////////////////////////////////////////////////////////////////////////////////
/// Helpers //////////////////////////////////////////////////////////////////////////////////////
//////////////////////////////////////////////////////////////////////////////////////////////////

func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response) {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(res); err != nil {
		d.log.Printf("[ERROR] Cannot serialize Response object %#v: %s\n",
			res,
			err.Error())
		return
	}

	defer ffjson.Pool(buf)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(buf) // nolint: errcheck
} // func (d *Daemon) sendResponseJSON(w http.ResponseWriter, res *objects.Response)
