// /home/krylon/go/src/github.com/gcirio/gcal-notifier/main.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 19:10:22 krylon>

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gcirio/gcal-notifier/backend"
	"github.com/gcirio/gcal-notifier/calendar"
	"github.com/gcirio/gcal-notifier/common"
	"github.com/pquerna/ffjson/ffjson"
)

func main() {
	fmt.Printf("%s %s (built %s)\n",
		common.AppName,
		common.Version,
		common.BuildStamp)

	var (
		err                   error
		daemon                *backend.Daemon
		appDir, addr, calPath string
		interval, window      time.Duration
		listCalendars         bool
	)

	flag.StringVar(
		&appDir,
		"appdir",
		common.BaseDir,
		"The directory where application-specific files live")

	flag.StringVar(
		&addr,
		"address",
		fmt.Sprintf("localhost:%d", common.DefaultPort),
		"Address the web interface listens on")

	flag.StringVar(
		&calPath,
		"calendars",
		"",
		"File with the calendar IDs to watch, one per line")

	flag.DurationVar(
		&interval,
		"interval",
		common.UpdateInterval,
		"How often to re-fetch the event list")

	flag.DurationVar(
		&window,
		"window",
		common.FiringWindow,
		"How long past its instant a notification is still fired")

	flag.BoolVar(
		&listCalendars,
		"list-calendars",
		false,
		"Print the IDs of all visible calendars and exit")

	flag.Parse()

	if appDir != common.BaseDir {
		if err = common.SetBaseDir(appDir); err != nil {
			fmt.Fprintf(
				os.Stderr,
				"Cannot set application directory to %s: %s\n",
				appDir,
				err.Error())
			os.Exit(1)
		}
	}

	if calPath != "" {
		common.CalendarPath = calPath
	}

	if listCalendars {
		printCalendarIDs()
		return
	}

	if daemon, err = backend.Summon(addr, interval, window); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Failed to initialize backend: %s\n",
			err.Error())
		os.Exit(1)
	}

	var sigQ = make(chan os.Signal, 1)
	var ticker = time.NewTicker(time.Second * 2)

	signal.Notify(sigQ, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

	for daemon.IsAlive() {
		select {
		case sig := <-sigQ:
			fmt.Printf("Quitting on signal %s\n", sig)
			daemon.Banish() // nolint: errcheck
			os.Exit(0)
		case <-ticker.C:
			continue
		}
	}

	if daemon.Failed() {
		os.Exit(1)
	}
}

// printCalendarIDs is a small convenience for setting up the calendar
// list: it prints the IDs of every calendar the authenticated user can
// see, as JSON.
func printCalendarIDs() {
	var (
		err    error
		ids    []string
		buf    []byte
		client *calendar.Client
		ctx    = context.Background()
	)

	if client, err = calendar.NewClient(ctx); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot create Calendar client: %s\n",
			err.Error())
		os.Exit(1)
	} else if ids, err = client.ListCalendars(ctx); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot list calendars: %s\n",
			err.Error())
		os.Exit(1)
	} else if buf, err = ffjson.Marshal(ids); err != nil {
		fmt.Fprintf(
			os.Stderr,
			"Cannot serialize calendar list: %s\n",
			err.Error())
		os.Exit(1)
	}

	defer ffjson.Pool(buf)

	fmt.Println(string(buf))
} // func printCalendarIDs()
