package itglue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

func (api *API) ListOrganizations(ctx context.Context, opts ListOrganizationsQuery) (*OrganizationList, error) {
	ep, err := api.getOrganizationsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't get organizations endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't perform request: %w", err)
	}

	var orgList OrganizationList
	if err := json.Unmarshal(body, &orgList); err != nil {
		return nil, fmt.Errorf("itglue: couldn't parse json response: %w", err)
	}

	return &orgList, nil
}

func (api *API) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	ep, err := api.getOrganizationByIDEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't get organization endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't perform request: %w", err)
	}

	var doc organizationDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("itglue: couldn't parse json response: %w", err)
	}
	if doc.Data.ID == "" {
		doc.Data.ID = ID(id)
	}

	return &doc.Data, nil
}

// ListPasswordIDs returns the ids of every password belonging to an organization, in API order.
func (api *API) ListPasswordIDs(ctx context.Context, orgID string) ([]ID, error) {
	ep, err := api.getPasswordRelationshipsEndpoint(orgID)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't get password relationships endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't perform request: %w", err)
	}

	var rels relationshipList
	if err := json.Unmarshal(body, &rels); err != nil {
		return nil, fmt.Errorf("itglue: couldn't parse json response: %w", err)
	}

	ids := make([]ID, 0, len(rels.Data))
	for _, r := range rels.Data {
		ids = append(ids, r.ID)
	}

	return ids, nil
}

func (api *API) GetPassword(ctx context.Context, id string) (*Password, error) {
	ep, err := api.getPasswordByIDEndpoint(id)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't get password endpoint: %w", err)
	}

	body, err := api.request(ctx, ep)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't perform request: %w", err)
	}

	var doc passwordDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("itglue: couldn't parse json response: %w", err)
	}
	if doc.Data.ID == "" {
		doc.Data.ID = ID(id)
	}

	return &doc.Data, nil
}

func (api *API) request(ctx context.Context, ep *url.URL) ([]byte, error) {
	return api.Fetcher.Fetch(ctx, ep)
}
