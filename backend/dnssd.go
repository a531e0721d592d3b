// /home/krylon/go/src/github.com/gcirio/gcal-notifier/backend/dnssd.go
// -*- mode: go; coding: utf-8; -*-
// Created on 22. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-24 19:52:31 krylon>

package backend

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gcirio/gcal-notifier/common"
	"github.com/grandcat/zeroconf"
)

const (
	srvService = "_http._tcp"
	srvDomain  = "local."
)

var addrPat = regexp.MustCompile(`:(\d+)$`)

// initDNSSd advertises the web interface via DNS-SD so one can find the
// daemon on the local network without remembering the port.
func (d *Daemon) initDNSSd() error {
	var (
		err   error
		match []string
		port  int64
		srv   *zeroconf.Server
	)

	if match = addrPat.FindStringSubmatch(d.web.Addr); match == nil {
		return fmt.Errorf("cannot extract HTTP port from server address %q",
			d.web.Addr)
	}

	if port, err = strconv.ParseInt(match[1], 10, 16); err != nil {
		d.log.Printf("[ERROR] Cannot parse HTTP port from server address %q: %s\n",
			d.web.Addr,
			err.Error())
		return err
	}

	var (
		txt          = []string{"txtv=0"}
		instanceName = fmt.Sprintf("%s@%s",
			common.AppName,
			d.hostname)
	)

	if srv, err = zeroconf.Register(instanceName, srvService, srvDomain, int(port), txt, nil); err != nil {
		d.log.Printf("[ERROR] Cannot register service with DNS-SD: %s\n",
			err.Error())
		return err
	}

	d.dnssd = srv
	return nil
} // func (d *Daemon) initDNSSd() error
