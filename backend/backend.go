// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/backend.go
// -*- mode: go; coding: utf-8; -*-
// Created on 20. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 18:33:10 krylon>

// Package backend implements the ... backend of the application, the part
// that talks to the calendar API and to DBus and decides when to pester
// the user.
package backend

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gcirio/gcal-notifier/calendar"
	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/logdomain"
	"github.com/gcirio/gcal-notifier/objects"
	"github.com/godbus/dbus/v5"
	"github.com/gorilla/mux"
	"github.com/grandcat/zeroconf"
)

const fetchTimeout = time.Second * 30

// Daemon is the centerpiece of the backend, coordinating between the
// calendar API, the scheduler and the notification daemon.
type Daemon struct {
	log        *log.Logger
	bus        *dbus.Conn
	cal        *calendar.Client
	sched      *Schedule
	lock       sync.RWMutex
	active     bool
	failed     bool
	calendars  []string
	interval   time.Duration
	lastFetch  time.Time
	started    time.Time
	web        http.Server
	router     *mux.Router
	dnssd      *zeroconf.Server
	hostname   string
	listenAddr string
	wakeQ      chan struct{}
	stopQ      chan struct{}
	aLock      sync.Mutex
	actions    map[uint32]string
	idLock     sync.Mutex
	idCnt      int64
}

// Summon summons a Daemon and returns it. No sacrifice or idolatry is
// required.
func Summon(addr string, interval, window time.Duration) (*Daemon, error) {
	var (
		err error
		ctx = context.Background()
		d   = &Daemon{
			listenAddr: addr,
			interval:   interval,
			active:     true,
			started:    time.Now(),
			router:     mux.NewRouter(),
			wakeQ:      make(chan struct{}, 1),
			stopQ:      make(chan struct{}),
			actions:    make(map[uint32]string),
		}
	)

	if d.interval <= 0 {
		d.interval = common.UpdateInterval
	}

	if d.log, err = common.GetLogger(logdomain.Backend); err != nil {
		fmt.Printf("ERROR initializing Logger: %s\n",
			err.Error())
		return nil, err
	} else if d.hostname, err = os.Hostname(); err != nil {
		d.log.Printf("[ERROR] Cannot determine hostname: %s\n",
			err.Error())
		return nil, err
	} else if d.calendars, err = calendar.ReadCalendarIDs(common.CalendarPath); err != nil {
		d.log.Printf("[ERROR] Cannot read calendar list: %s\n",
			err.Error())
		return nil, err
	} else if len(d.calendars) == 0 {
		err = fmt.Errorf("calendar list %s is empty", common.CalendarPath)
		d.log.Printf("[ERROR] %s\n", err.Error())
		return nil, err
	} else if d.sched, err = NewSchedule(window); err != nil {
		d.log.Printf("[ERROR] Cannot create Schedule: %s\n",
			err.Error())
		return nil, err
	} else if d.bus, err = dbus.SessionBus(); err != nil {
		d.log.Printf("[ERROR] Failed to connect to DBus session bus: %s\n",
			err.Error())
		return nil, err
	} else if d.cal, err = calendar.NewClient(ctx); err != nil {
		d.log.Printf("[ERROR] Cannot create Calendar client: %s\n",
			err.Error())
		return nil, err
	}

	d.log.Printf("[INFO] Watching %d calendar(s), refreshing every %s\n",
		len(d.calendars),
		d.interval)

	d.web.Addr = addr
	d.web.ErrorLog = d.log
	d.web.Handler = d.router

	if err = d.initWebHandlers(); err != nil {
		d.log.Printf("[ERROR] Failed to initialize web server: %s\n",
			err.Error())
		return nil, err
	} else if err = d.initActionSignals(); err != nil {
		d.log.Printf("[ERROR] Failed to subscribe to DBus signals: %s\n",
			err.Error())
		return nil, err
	}

	if err = d.initDNSSd(); err != nil {
		// Not fatal, the web interface still works without it.
		d.log.Printf("[WARN] Cannot register with DNS-SD: %s\n",
			err.Error())
	}

	go d.superviseLoop()
	go d.serveHTTP()

	return d, nil
} // func Summon(addr string, interval, window time.Duration) (*Daemon, error)

// IsAlive returns true if the Daemon's active flag is set.
func (d *Daemon) IsAlive() bool {
	d.lock.RLock()
	var alive = d.active
	d.lock.RUnlock()

	return alive
} // func (d *Daemon) IsAlive() bool

// Failed returns true if the Daemon gave up rather than shut down cleanly.
func (d *Daemon) Failed() bool {
	d.lock.RLock()
	var failed = d.failed
	d.lock.RUnlock()

	return failed
} // func (d *Daemon) Failed() bool

// Banish clears the Daemon's active flag, telling components to shut down.
func (d *Daemon) Banish() error {
	var (
		err         error
		ctx, cancel = context.WithTimeout(context.Background(), time.Second*3)
	)
	defer cancel()

	if err = d.web.Shutdown(ctx); err != nil {
		d.log.Printf("[ERROR] Failed to shutdown web server: %s\n",
			err.Error())
	}

	if ctx.Err() != nil {
		err = ctx.Err()
		d.log.Printf("[ERROR] Failed to gracefully shut down web server: %s\n",
			ctx.Err().Error())
		d.web.Close() // nolint: errcheck
	}

	if d.dnssd != nil {
		d.dnssd.Shutdown()
	}

	d.lock.Lock()
	if d.active {
		d.active = false
		close(d.stopQ)
	}
	d.lock.Unlock()

	return err
} // func (d *Daemon) Banish() error

// scheduleLoop is the evaluation loop: refresh the event list when the
// update interval has elapsed, dispatch the due notifications, sleep until
// the next trigger or refresh, repeat. It runs strictly sequentially;
// only authentication errors make it return.
func (d *Daemon) scheduleLoop() error {
	defer d.log.Println("[TRACE] Quitting scheduleLoop")

	var timer = time.NewTimer(d.interval)
	defer timer.Stop()

	for d.IsAlive() {
		var (
			err  error
			now  = time.Now().UTC()
			due  []objects.Trigger
			next time.Time
		)

		d.lock.RLock()
		var stale = now.Sub(d.lastFetch) >= d.interval
		d.lock.RUnlock()

		if stale {
			if err = d.refreshEvents(now); err != nil {
				return err
			}
		}

		d.lock.Lock()
		due, next = d.sched.Evaluate(now)
		d.lock.Unlock()

		for idx := range due {
			var t = &due[idx]

			if _, err = d.notify(t); err != nil {
				d.log.Printf("[ERROR] Failed to dispatch notification for %s (%q): %s\n",
					t.EventID,
					t.Title,
					err.Error())
			}

			d.lock.Lock()
			d.sched.MarkFired(t, time.Now().UTC(), err == nil)
			d.lock.Unlock()
		}

		now = time.Now().UTC()

		d.lock.RLock()
		var pause = d.sched.SleepDuration(now, d.lastFetch.Add(d.interval), next)
		d.lock.RUnlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}

		timer.Reset(pause)

		select {
		case <-timer.C:
		case <-d.wakeQ:
			d.log.Println("[DEBUG] Woken up early, refresh was requested")
			d.lock.Lock()
			d.lastFetch = time.Time{}
			d.lock.Unlock()
		case <-d.stopQ:
			return nil
		}
	}

	return nil
} // func (d *Daemon) scheduleLoop() error

// refreshEvents replaces the event list wholesale with fresh data for the
// next 24 hours. A calendar that fails to fetch is skipped for this cycle
// and retried on the next one; only authentication errors abort the
// refresh.
func (d *Daemon) refreshEvents(now time.Time) error {
	var (
		err         error
		ctx, cancel = context.WithTimeout(context.Background(), fetchTimeout)
		events      = make([]objects.Event, 0, 64)
	)
	defer cancel()

	for _, id := range d.calendars {
		var list []objects.Event

		if list, err = d.cal.FetchEvents(ctx, id, now, now.Add(common.FetchWindow)); err != nil {
			if calendar.IsAuthError(err) {
				d.log.Printf("[CRITICAL] Authentication failure fetching calendar %s: %s\n",
					id,
					err.Error())
				return err
			}

			d.log.Printf("[ERROR] Cannot fetch events for calendar %s, skipping this cycle: %s\n",
				id,
				err.Error())
			continue
		}

		events = append(events, list...)
	}

	d.lock.Lock()
	d.sched.ReplaceEvents(events)
	d.lastFetch = now
	d.lock.Unlock()

	d.log.Printf("[INFO] Fetched %d event(s) from %d calendar(s)\n",
		len(events),
		len(d.calendars))

	return nil
} // func (d *Daemon) refreshEvents(now time.Time) error

func (d *Daemon) getID() int64 {
	d.idLock.Lock()
	d.idCnt++
	var id = d.idCnt
	d.idLock.Unlock()
	return id
} // func (d *Daemon) getID() int64
