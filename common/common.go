// /home/krylon/go/src/github.com/gcirio/gcal-notifier/common/common.go
// -*- mode: go; coding: utf-8; -*-
// Created on 18. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 17:48:11 krylon>

// Package common provides constants and utility functions used
// throughout the application.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gcirio/gcal-notifier/logdomain"
	"github.com/hashicorp/logutils"
	uuid "github.com/odeke-em/go-uuid"
)

// AppName is the name the application identifies itself by, Version is the,
// you guessed it, version, and BuildStamp is the time the running binary
// was built.
const (
	AppName    = "GCal-Notifier"
	Version    = "0.4.2"
	BuildStamp = "2026-08-25 11:02:48"
	Debug      = true

	TimestampFormat          = "2006-01-02 15:04:05"
	TimestampFormatMinute    = "2006-01-02 15:04"
	TimestampFormatSubSecond = "2006-01-02 15:04:05.0000 MST"
	TimestampFormatTime      = "15:04:05"
	TimestampFormatDate      = "2006-01-02"

	DefaultPort = 5819
)

// Tunables for the scheduler. Command line flags can override some of these
// at startup, afterwards they are fixed for the lifetime of the process.
const (
	// UpdateInterval is how often the event list is re-fetched from the
	// calendar API.
	UpdateInterval = time.Minute * 10
	// FetchWindow is how far into the future events are fetched.
	FetchWindow = time.Hour * 24
	// FiringWindow is how long after its trigger time a notification is
	// still considered due. Triggers that are older than this are
	// skipped for good.
	FiringWindow = time.Second * 60
	// NotificationTimeout is the expiry passed to the notification
	// daemon.
	NotificationTimeout = time.Second * 10
	// RestartDelay is the initial delay before the supervisor restarts
	// the scheduler after a fault.
	RestartDelay = time.Second * 5
	// MaxAuthRetries is the number of consecutive authentication
	// failures the supervisor tolerates before giving up.
	MaxAuthRetries = 5
)

// LogLevels are the valid log levels, in ascending order of severity.
var LogLevels = []logutils.LogLevel{
	"TRACE",
	"DEBUG",
	"INFO",
	"WARN",
	"ERROR",
	"CRITICAL",
	"CANTHAPPEN",
	"SILENT",
}

// MinLogLevel is the minimum level of log messages that get logged.
var MinLogLevel logutils.LogLevel = "TRACE"

// PackageLevels defines minimum log levels per package.
var PackageLevels = make(map[logdomain.ID]logutils.LogLevel, len(logdomain.AllDomains()))

func init() {
	if !Debug {
		MinLogLevel = "INFO"
	}

	for _, dom := range logdomain.AllDomains() {
		PackageLevels[dom] = MinLogLevel
	}
}

// Paths of the files the application uses. SetBaseDir recomputes the
// derived paths, so the order of assignments matters.
var (
	BaseDir        = filepath.Join(os.Getenv("HOME"), ".gcal-notifier.d")
	LogPath        = filepath.Join(BaseDir, "gcal-notifier.log")
	TokenPath      = filepath.Join(BaseDir, "token.json")
	CredentialPath = filepath.Join(BaseDir, "credentials.json")
	CalendarPath   = filepath.Join(BaseDir, "calendars.txt")
)

// SetBaseDir sets the BaseDir and related paths.
func SetBaseDir(path string) error {
	fmt.Printf("Setting BaseDir to %s\n", path)

	BaseDir = path
	LogPath = filepath.Join(BaseDir, "gcal-notifier.log")
	TokenPath = filepath.Join(BaseDir, "token.json")
	CredentialPath = filepath.Join(BaseDir, "credentials.json")
	CalendarPath = filepath.Join(BaseDir, "calendars.txt")

	if err := InitApp(); err != nil {
		fmt.Printf("Error initializing application environment: %s\n",
			err.Error())
		return err
	}

	return nil
} // func SetBaseDir(path string) error

// GetLogger tries to create a Logger for the given log domain.
func GetLogger(dom logdomain.ID) (*log.Logger, error) {
	var (
		err  error
		name = fmt.Sprintf("%s.%s",
			AppName,
			dom)
	)

	if err = InitApp(); err != nil {
		return nil, fmt.Errorf("Error initializing application environment: %s",
			err.Error())
	}

	var fh *os.File

	if fh, err = os.OpenFile(LogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644); err != nil {
		return nil, fmt.Errorf("Error opening log file %s: %s",
			LogPath,
			err.Error())
	}

	var writer = io.MultiWriter(os.Stdout, fh)

	var filter = &logutils.LevelFilter{
		Levels:   LogLevels,
		MinLevel: PackageLevels[dom],
		Writer:   writer,
	}

	var logger = log.New(filter, name+" ", log.Ldate|log.Ltime|log.Lshortfile)

	return logger, nil
} // func GetLogger(dom logdomain.ID) (*log.Logger, error)

// InitApp performs some basic preparations for the application to run.
// It is safe to call multiple times.
func InitApp() error {
	var err error

	if err = os.Mkdir(BaseDir, 0755); err != nil {
		if !os.IsExist(err) {
			return fmt.Errorf("Error creating BaseDir %s: %s",
				BaseDir,
				err.Error())
		}
	}

	return nil
} // func InitApp() error

// GetUUID returns a fresh UUID as a string.
func GetUUID() string {
	return uuid.NewRandom().String()
} // func GetUUID() string
