// /home/krylon/go/src/github.com/gcirio/gcal-notifier/calendar/auth.go
// -*- mode: go; coding: utf-8; -*-
// Created on 19. 08. 2026 by Benjamin Walkenhorst
// (c) 2026 Benjamin Walkenhorst
// Time-stamp: <2026-08-25 17:05:40 krylon>

package calendar

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/blicero/krylib"
	"github.com/gcirio/gcal-notifier/common"
	"github.com/pquerna/ffjson/ffjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// tokenSource builds an OAuth2 token source from the stored credentials.
// A cached token is reused (and refreshed transparently by the source);
// without one, authorize walks the user through the consent flow once and
// persists the result.
func tokenSource(ctx context.Context, lg *log.Logger) (oauth2.TokenSource, error) {
	var (
		err    error
		raw    []byte
		exists bool
		conf   *oauth2.Config
		tok    *oauth2.Token
	)

	if raw, err = os.ReadFile(common.CredentialPath); err != nil {
		return nil, fmt.Errorf("cannot read credentials file %s: %w",
			common.CredentialPath,
			err)
	} else if conf, err = google.ConfigFromJSON(raw, gcal.CalendarReadonlyScope); err != nil {
		return nil, fmt.Errorf("cannot parse credentials file %s: %w",
			common.CredentialPath,
			err)
	}

	if exists, err = krylib.Fexists(common.TokenPath); err != nil {
		return nil, err
	} else if exists {
		if tok, err = loadToken(common.TokenPath); err != nil {
			lg.Printf("[WARN] Cannot load cached token from %s: %s\n",
				common.TokenPath,
				err.Error())
		}
	}

	if tok == nil {
		if tok, err = authorize(ctx, conf); err != nil {
			return nil, err
		} else if err = saveToken(common.TokenPath, tok); err != nil {
			lg.Printf("[ERROR] Cannot save token to %s: %s\n",
				common.TokenPath,
				err.Error())
		} else {
			lg.Printf("[INFO] Token saved to %s\n",
				common.TokenPath)
		}
	}

	return conf.TokenSource(ctx, tok), nil
} // func tokenSource(ctx context.Context, lg *log.Logger) (oauth2.TokenSource, error)

// authorize performs the interactive half of the installed-app flow: the
// user opens the consent URL in a browser and pastes the authorization
// code back on the terminal.
func authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	var (
		err     error
		code    string
		tok     *oauth2.Token
		authURL = conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	)

	fmt.Printf(`No cached OAuth token was found.
Open the following URL in your browser, authorize %s,
then paste the authorization code here and press Enter:

%s

Code: `,
		common.AppName,
		authURL)

	if _, err = fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("cannot read authorization code: %w", err)
	} else if tok, err = conf.Exchange(ctx, code); err != nil {
		return nil, fmt.Errorf("cannot exchange authorization code: %w", err)
	}

	return tok, nil
} // func authorize(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

func loadToken(path string) (*oauth2.Token, error) {
	var (
		err error
		raw []byte
		tok oauth2.Token
	)

	if raw, err = os.ReadFile(path); err != nil {
		return nil, err
	} else if err = ffjson.Unmarshal(raw, &tok); err != nil {
		return nil, err
	}

	return &tok, nil
} // func loadToken(path string) (*oauth2.Token, error)

func saveToken(path string, tok *oauth2.Token) error {
	var (
		err error
		buf []byte
	)

	if buf, err = ffjson.Marshal(tok); err != nil {
		return err
	}

	defer ffjson.Pool(buf)

	return os.WriteFile(path, buf, 0600)
} // func saveToken(path string, tok *oauth2.Token) error
