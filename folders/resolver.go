package folders

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/toothbrush/itglue-audit/store"
)

// Stats counts what a Resolver did during this run.
type Stats struct {
	Hits     int
	Lookups  int
	Failures int
}

// Resolver answers folder lookups from its cache, going to the Surface only for folders it has
// never seen.  A lookup that fails is remembered until the Resolver is closed but never written
// to the cache, so the next run tries it again.
type Resolver struct {
	surface Surface
	cache   *store.Cache[Resolution]
	logger  zerolog.Logger

	failed map[string]error
	stats  Stats
	closed bool
}

// NewResolver loads the cache and logs in.  On error the surface has already been closed.
func NewResolver(ctx context.Context, surface Surface, cache *store.Cache[Resolution], logger zerolog.Logger) (*Resolver, error) {
	r := &Resolver{
		surface: surface,
		cache:   cache,
		logger:  logger.With().Str("component", "folder_resolver").Logger(),
		failed:  map[string]error{},
	}

	if err := cache.Load(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("folders: couldn't load folder cache: %w", err), surface.Close())
	}
	r.logger.Debug().Int("cached_folders", cache.Len()).Msg("Folder cache loaded")

	if err := surface.Login(ctx); err != nil {
		var le *LoginError
		if !errors.As(err, &le) {
			err = &LoginError{Step: "session", Err: err}
		}
		return nil, errors.Join(err, surface.Close())
	}

	return r, nil
}

// Resolve never fails: a folder that can't be looked up comes back as an empty Resolution.
func (r *Resolver) Resolve(ctx context.Context, orgID, folderID string) Resolution {
	if res, ok := r.cache.Get(folderID); ok && res.Resolved() {
		r.stats.Hits++
		return res
	}
	if err, ok := r.failed[folderID]; ok {
		r.logger.Debug().Err(err).Str("folder_id", folderID).Msg("Folder failed earlier this run, not retrying")
		return Resolution{}
	}

	r.stats.Lookups++
	crumbs, err := r.surface.Breadcrumbs(ctx, orgID, folderID)
	if err == nil {
		res := ResolutionFromBreadcrumbs(crumbs)
		if res.Resolved() {
			r.cache.Put(folderID, res)
			r.logger.Debug().
				Str("org_id", orgID).
				Str("folder_id", folderID).
				Str("folder_name", res.FolderName).
				Str("parent_folder_name", res.ParentFolderName).
				Msg("Resolved folder")
			return res
		}
		err = errors.New("empty breadcrumb trail")
	}

	r.stats.Failures++
	r.failed[folderID] = err
	r.logger.Warn().
		Err(err).
		Str("org_id", orgID).
		Str("folder_id", folderID).
		Msg("Failed to resolve folder")
	return Resolution{}
}

// Flush writes the cache out; the orchestrator calls it after every organization.
func (r *Resolver) Flush(ctx context.Context) error {
	if err := r.cache.Flush(ctx); err != nil {
		return fmt.Errorf("folders: couldn't save folder cache: %w", err)
	}
	return nil
}

func (r *Resolver) Stats() Stats {
	return r.stats
}

// Close saves the cache and releases the surface.  Calling it again does nothing.
func (r *Resolver) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	// the run's context may already be cancelled; the cache still has to reach disk
	flushErr := r.Flush(context.Background())
	closeErr := r.surface.Close()
	if closeErr != nil {
		closeErr = fmt.Errorf("folders: couldn't close session: %w", closeErr)
	}

	r.logger.Debug().
		Int("cached_folders", r.cache.Len()).
		Int("hits", r.stats.Hits).
		Int("lookups", r.stats.Lookups).
		Int("failures", r.stats.Failures).
		Msg("Folder resolver closed")

	return errors.Join(flushErr, closeErr)
}
