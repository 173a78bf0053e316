package itglue

import (
	"context"
	"fmt"
)

// ListAllOrganizations walks GET /organizations page by page until the server stops handing out a
// links.next (or returns an empty page).  Any page failing aborts the whole listing.
func (api *API) ListAllOrganizations(ctx context.Context, pageSize int) ([]Organization, error) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	orgs := []Organization{}
	seen := map[ID]bool{}

	query := ListOrganizationsQuery{
		PageNumber: 1,
		PageSize:   pageSize,
	}

	for {
		page, err := api.ListOrganizations(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("itglue: couldn't list organizations page %d: %w", query.PageNumber, err)
		}

		for _, org := range page.Data {
			if seen[org.ID] {
				continue
			}
			seen[org.ID] = true
			orgs = append(orgs, org)
		}

		if page.Links.Next == "" || len(page.Data) == 0 {
			break
		}
		query.PageNumber++
	}

	return orgs, nil
}
