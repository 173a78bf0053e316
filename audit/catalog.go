// Package audit walks every organization's passwords, pairs each with its folder and writes the
// result out.  Progress is kept per organization so an interrupted run picks up where it stopped.
package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/toothbrush/itglue-audit/itglue"
	"github.com/toothbrush/itglue-audit/store"
)

// OrgEntry is an organization's line in the progress cache.
type OrgEntry struct {
	Name      string `json:"name"`
	Processed bool   `json:"processed"`
}

// Catalog is the persistent list of organizations, which of them are done, and the audit records
// each finished organization produced.
type Catalog struct {
	lister   OrganizationLister
	cache    *store.Cache[OrgEntry]
	records  *store.Cache[[]Record]
	pageSize int
	logger   zerolog.Logger
}

func NewCatalog(lister OrganizationLister, cache *store.Cache[OrgEntry], records *store.Cache[[]Record], pageSize int, logger zerolog.Logger) *Catalog {
	if pageSize < 1 {
		pageSize = itglue.DefaultPageSize
	}
	return &Catalog{
		lister:   lister,
		cache:    cache,
		records:  records,
		pageSize: pageSize,
		logger:   logger.With().Str("component", "catalog").Logger(),
	}
}

// Discover loads the saved catalog, lists every organization and merges in the ones not seen
// before.  Known organizations keep their processed flag but take the listed name.  The merged
// catalog is saved once, at the end; a failed listing saves nothing.
func (c *Catalog) Discover(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	known := c.cache.Len()

	orgs, err := c.lister.ListAllOrganizations(ctx, c.pageSize)
	if err != nil {
		return fmt.Errorf("audit: couldn't discover organizations: %w", err)
	}

	discovered := make(map[string]OrgEntry, len(orgs))
	for _, org := range orgs {
		discovered[org.ID.String()] = OrgEntry{Name: org.Attributes.Name}
	}
	if err := c.cache.Merge(discovered); err != nil {
		return fmt.Errorf("audit: couldn't merge organizations: %w", err)
	}
	renamed := c.refreshNames(discovered)

	if err := c.Persist(ctx); err != nil {
		return err
	}

	total, processed := c.Counts()
	c.logger.Info().
		Int("listed", len(orgs)).
		Int("new", total-known).
		Int("renamed", renamed).
		Int("total", total).
		Int("processed", processed).
		Msg("Organization discovery complete")

	return nil
}

// refreshNames copies listed names onto known organizations, leaving processed flags alone.
func (c *Catalog) refreshNames(listed map[string]OrgEntry) int {
	renamed := 0
	for id, fresh := range listed {
		entry, ok := c.cache.Get(id)
		if !ok || entry.Name == fresh.Name {
			continue
		}
		c.logger.Info().Str("org_id", id).Str("from", entry.Name).Str("to", fresh.Name).Msg("Organization renamed")
		entry.Name = fresh.Name
		c.cache.Put(id, entry)
		renamed++
	}
	return renamed
}

// Load reads the saved catalog and records without talking to the API.
func (c *Catalog) Load(ctx context.Context) error {
	if err := c.cache.Load(ctx); err != nil {
		return fmt.Errorf("audit: couldn't load organization cache: %w", err)
	}
	if err := c.records.Load(ctx); err != nil {
		return fmt.Errorf("audit: couldn't load record cache: %w", err)
	}
	return nil
}

// IDs lists every known organization in id order.
func (c *Catalog) IDs() []string {
	return c.cache.Keys()
}

// Pending lists the organizations not yet processed, in id order.
func (c *Catalog) Pending() []string {
	pending := []string{}
	for _, id := range c.cache.Keys() {
		if entry, _ := c.cache.Get(id); !entry.Processed {
			pending = append(pending, id)
		}
	}
	return pending
}

func (c *Catalog) Get(id string) (OrgEntry, bool) {
	return c.cache.Get(id)
}

// MarkProcessed saves an organization's records, then flags it as done and saves the catalog.
// Records are written first: an organization is never processed without its records on disk.
func (c *Catalog) MarkProcessed(ctx context.Context, id string, records []Record) error {
	entry, ok := c.cache.Get(id)
	if !ok {
		return fmt.Errorf("audit: organization %s is not in the catalog", id)
	}

	if records == nil {
		records = []Record{}
	}
	c.records.Put(id, records)
	if err := c.records.Flush(ctx); err != nil {
		return fmt.Errorf("audit: couldn't save records for organization %s: %w", id, err)
	}

	entry.Processed = true
	c.cache.Put(id, entry)

	return c.Persist(ctx)
}

// Records returns the saved records of every processed organization, in organization id order.
func (c *Catalog) Records() []Record {
	all := []Record{}
	for _, id := range c.cache.Keys() {
		if entry, _ := c.cache.Get(id); !entry.Processed {
			continue
		}
		saved, _ := c.records.Get(id)
		all = append(all, saved...)
	}
	return all
}

// Reset clears every processed flag and the saved records, so the next full run audits
// everything again.
func (c *Catalog) Reset(ctx context.Context) error {
	if err := c.Load(ctx); err != nil {
		return err
	}
	for _, id := range c.cache.Keys() {
		entry, _ := c.cache.Get(id)
		entry.Processed = false
		c.cache.Put(id, entry)
	}
	c.records.Clear()
	if err := c.records.Flush(ctx); err != nil {
		return fmt.Errorf("audit: couldn't clear record cache: %w", err)
	}
	c.logger.Info().Int("organizations", c.cache.Len()).Msg("Cleared processed flags and saved records")

	return c.Persist(ctx)
}

func (c *Catalog) Persist(ctx context.Context) error {
	if err := c.cache.Flush(ctx); err != nil {
		return fmt.Errorf("audit: couldn't save organization cache: %w", err)
	}
	return nil
}

// Counts returns how many organizations are known and how many of those are processed.
func (c *Catalog) Counts() (total, processed int) {
	for _, entry := range c.cache.Entries() {
		total++
		if entry.Processed {
			processed++
		}
	}
	return total, processed
}
