// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/notify.go
// -*- mode: go; coding: utf-8; -*-
// Created on 21. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 18:36:55 krylon>

package backend

import (
	"fmt"
	"os/exec"

	"github.com/gcirio/gcal-notifier/common"
	"github.com/gcirio/gcal-notifier/objects"
	"github.com/godbus/dbus/v5"
)

const (
	notifyObj    = "org.freedesktop.Notifications"
	notifyIntf   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = "org.freedesktop.Notifications.Notify"
	closeMethod  = "org.freedesktop.Notifications.CloseNotification"

	sigActionInvoked      = notifyIntf + ".ActionInvoked"
	sigNotificationClosed = notifyIntf + ".NotificationClosed"

	actionJoin = "join"
)

// notify renders one desktop notification and returns the ID the
// notification daemon assigned to it. If the Notification carries an
// action URL, a "Join meeting" button is attached; actionLoop deals with
// the click.
func (d *Daemon) notify(n objects.Notification) (uint32, error) {
	var (
		obj        = d.bus.Object(notifyObj, notifyPath)
		head, body = n.Payload()
		actions    = []string{}
		hints      = map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(n.Urgency()),
		}
	)

	if obj == nil {
		var err = fmt.Errorf("Did not find object %s (%s) on session bus",
			notifyObj,
			notifyPath)
		d.log.Printf("[ERROR] %s\n", err.Error())
		return 0, err
	}

	if n.ActionURL() != "" {
		actions = []string{actionJoin, "Join meeting"}
	}

	var res = obj.Call(
		notifyMethod,
		0,
		common.AppName,
		uint32(0),
		"",
		head,
		body,
		actions,
		hints,
		int32(common.NotificationTimeout.Milliseconds()),
	)

	if res.Err != nil {
		d.log.Printf("[ERROR] Cannot send Notification %q: %s\n",
			head,
			res.Err.Error())
		return 0, res.Err
	}

	var id uint32

	if err := res.Store(&id); err != nil {
		d.log.Printf("[ERROR] Cannot read notification ID: %s\n",
			err.Error())
		return 0, err
	}

	if n.ActionURL() != "" {
		d.aLock.Lock()
		d.actions[id] = n.ActionURL()
		d.aLock.Unlock()
	}

	d.log.Printf("[INFO] Notification %d shown: %s\n",
		id,
		head)

	return id, nil
} // func (d *Daemon) notify(n objects.Notification) (uint32, error)

// closeNotification withdraws a notification we posted earlier.
func (d *Daemon) closeNotification(id uint32) error {
	var (
		obj = d.bus.Object(notifyObj, notifyPath)
		res = obj.Call(closeMethod, 0, id)
	)

	if res.Err != nil {
		d.log.Printf("[DEBUG] Cannot close notification %d: %s\n",
			id,
			res.Err.Error())
		return res.Err
	}

	return nil
} // func (d *Daemon) closeNotification(id uint32) error

// initActionSignals subscribes to the notification daemon's signals so
// clicks on the "Join meeting" button reach us.
func (d *Daemon) initActionSignals() error {
	var err error

	if err = d.bus.AddMatchSignal(
		dbus.WithMatchObjectPath(notifyPath),
		dbus.WithMatchInterface(notifyIntf),
	); err != nil {
		return err
	}

	var sigQ = make(chan *dbus.Signal, 16)

	d.bus.Signal(sigQ)

	go d.actionLoop(sigQ)

	return nil
} // func (d *Daemon) initActionSignals() error

// actionLoop reacts to the notification daemon's signals: an invoked
// "join" action opens the meeting URL in the user's browser, a closed
// notification is forgotten.
func (d *Daemon) actionLoop(queue <-chan *dbus.Signal) {
	defer d.log.Println("[TRACE] actionLoop is quitting")

	for sig := range queue {
		switch sig.Name {
		case sigActionInvoked:
			if len(sig.Body) < 2 {
				continue
			}

			var (
				id, _  = sig.Body[0].(uint32)
				key, _ = sig.Body[1].(string)
			)

			if key != actionJoin && key != "default" {
				continue
			}

			d.aLock.Lock()
			var url, ok = d.actions[id]
			delete(d.actions, id)
			d.aLock.Unlock()

			if !ok {
				continue
			}

			d.log.Printf("[DEBUG] Opening meeting link %s\n",
				url)

			if err := exec.Command("xdg-open", url).Start(); err != nil {
				d.log.Printf("[ERROR] Cannot open %s: %s\n",
					url,
					err.Error())
			}
		case sigNotificationClosed:
			if len(sig.Body) < 1 {
				continue
			}

			var id, _ = sig.Body[0].(uint32)

			d.aLock.Lock()
			delete(d.actions, id)
			d.aLock.Unlock()
		}
	}
} // func (d *Daemon) actionLoop(queue <-chan *dbus.Signal)
