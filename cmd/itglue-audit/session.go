/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/toothbrush/itglue-audit/audit"
	"github.com/toothbrush/itglue-audit/folders"
	"github.com/toothbrush/itglue-audit/internal/config"
	"github.com/toothbrush/itglue-audit/itglue"
	"github.com/toothbrush/itglue-audit/store"
	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// app holds what every command shares: the API client and the caches.
type app struct {
	settings config.Settings
	logger   zerolog.Logger

	api         *itglue.API
	orgCache    *store.Cache[audit.OrgEntry]
	folderCache *store.Cache[folders.Resolution]
	recordCache *store.Cache[[]audit.Record]

	closers []func() error
}

func openApp(ctx context.Context, settings config.Settings, logger zerolog.Logger) (*app, error) {
	if err := Credentials.ValidateAPI(); err != nil {
		return nil, err
	}

	a := &app{settings: settings, logger: logger}

	client, err := a.httpClient()
	if err != nil {
		return nil, errors.Join(err, a.close())
	}

	api, err := itglue.NewAPI(Credentials.API.Base, Credentials.API.Key, client, logger)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("cmd: couldn't instantiate ITGlue API: %w", err), a.close())
	}
	api.Fetcher.MaxAttempts = settings.MaxAttempts
	a.api = api

	if err := a.openCaches(ctx); err != nil {
		return nil, errors.Join(err, a.close())
	}

	return a, nil
}

// httpClient is a plain client, or one recording to and replaying from a go-vcr cassette.
func (a *app) httpClient() (*http.Client, error) {
	if !a.settings.WithVCR {
		return &http.Client{}, nil
	}

	opts := &recorder.Options{
		CassetteName:       filepath.Join(a.settings.StateDir, "fixtures", "itglue-api"),
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      http.DefaultTransport,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
	}
	a.closers = append(a.closers, r.Stop)

	r.AddHook(scrubInteraction, recorder.AfterCaptureHook)
	r.SetMatcher(matchSuccessful)

	a.logger.Info().Str("cassette", opts.CassetteName).Msg("Recording API traffic with go-vcr")
	return r.GetDefaultClient(), nil
}

// failedCaptureHeader tags a captured non-2xx interaction so it is never replayed.
const failedCaptureHeader = "X-Itglue-Audit-Failed"

// scrubInteraction keeps the API key out of the cassette.  Failures (throttling, 5xx) are never
// saved or replayed, so a retry always reaches the server.
func scrubInteraction(i *cassette.Interaction) error {
	headers := i.Request.Headers.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	headers.Del("X-Api-Key")

	if i.Response.Code < 200 || i.Response.Code > 299 {
		i.DiscardOnSave = true
		headers.Set(failedCaptureHeader, "true")
	}
	i.Request.Headers = headers
	return nil
}

// matchSuccessful is the default method and URL matcher, minus captured failures.
func matchSuccessful(r *http.Request, i cassette.Request) bool {
	if i.Headers.Get(failedCaptureHeader) != "" {
		return false
	}
	return cassette.DefaultMatcher(r, i)
}

func (a *app) openCaches(ctx context.Context) error {
	switch a.settings.StoreBackend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(ctx, a.settings.DatabasePath(), a.logger)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, db.Close)
		a.orgCache = store.NewCache[audit.OrgEntry](store.NewSQLite[audit.OrgEntry](db, "organizations"))
		a.folderCache = store.NewCache[folders.Resolution](store.NewSQLite[folders.Resolution](db, "folders"))
		a.recordCache = store.NewCache[[]audit.Record](store.NewSQLite[[]audit.Record](db, "records"))

	default:
		if err := os.MkdirAll(a.settings.StateDir, 0750); err != nil {
			return fmt.Errorf("cmd: couldn't create state directory %s: %w", a.settings.StateDir, err)
		}
		a.orgCache = store.NewCache[audit.OrgEntry](store.NewJSONFile[audit.OrgEntry](a.settings.OrgCachePath()))
		a.folderCache = store.NewCache[folders.Resolution](store.NewJSONFile[folders.Resolution](a.settings.FolderCachePath()))
		a.recordCache = store.NewCache[[]audit.Record](store.NewJSONFile[[]audit.Record](a.settings.RecordCachePath()))
	}

	a.logger.Debug().
		Str("backend", a.settings.StoreBackend).
		Str("state_dir", a.settings.StateDir).
		Msg("Caches ready")
	return nil
}

func (a *app) catalog() *audit.Catalog {
	return audit.NewCatalog(a.api, a.orgCache, a.recordCache, a.settings.PageSize, a.logger)
}

// runner logs in to the web UI and assembles an audit.Runner.  The runner closes the resolver
// itself when its run ends.
func (a *app) runner(ctx context.Context) (*audit.Runner, error) {
	if err := Credentials.ValidateUI(); err != nil {
		return nil, err
	}

	browser := folders.NewBrowser(folders.BrowserConfig{
		UIBase:      Credentials.UI.Base,
		Username:    Credentials.UI.Username,
		Password:    Credentials.UI.Password,
		TOTPSecret:  Credentials.UI.TOTPSecret,
		ChromePath:  a.settings.ChromePath,
		Headless:    !a.settings.Headful,
		WaitTimeout: a.settings.LoginTimeout,
	}, a.logger)

	resolver, err := folders.NewResolver(ctx, browser, a.folderCache, a.logger)
	if err != nil {
		return nil, fmt.Errorf("cmd: couldn't start folder resolver: %w", err)
	}

	var progress *os.File
	if !Debug {
		progress = os.Stderr
	}

	r := &audit.Runner{
		Orgs:     a.api,
		Catalog:  a.catalog(),
		Auditor:  audit.NewAuditor(a.api, resolver, Credentials.UI.Base, a.logger),
		Exporter: audit.NewExporter(a.settings.Output, a.settings.Parquet, a.logger),
		Counter:  a.api,
		Folders:  resolver,
		Logger:   a.logger.With().Str("component", "runner").Logger(),
	}
	if progress != nil {
		r.Progress = progress
	}
	return r, nil
}

// close releases everything in reverse order of opening.
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
