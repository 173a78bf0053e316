package itglue

import (
	"fmt"
	"net/url"

	"github.com/google/go-querystring/query"
)

// getOrganizationsEndpoint returns the endpoint that lists organizations one page at a time.
func (a *API) getOrganizationsEndpoint(opts ListOrganizationsQuery) (*url.URL, error) {
	ep, err := a.resolveEndpoint("organizations")
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't resolve endpoint: %w", err)
	}

	v, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't encode query params: %w", err)
	}
	ep.RawQuery = v.Encode()

	return ep, nil
}

func (a *API) getOrganizationByIDEndpoint(id string) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("itglue: please provide ID to get organization")
	}

	return a.resolveEndpoint(fmt.Sprintf("organizations/%s", url.PathEscape(id)))
}

// getPasswordRelationshipsEndpoint lists only the ids of an organization's passwords.
func (a *API) getPasswordRelationshipsEndpoint(orgID string) (*url.URL, error) {
	if orgID == "" {
		return nil, fmt.Errorf("itglue: please provide organization ID to list passwords")
	}

	return a.resolveEndpoint(fmt.Sprintf("organizations/%s/relationships/passwords", url.PathEscape(orgID)))
}

func (a *API) getPasswordByIDEndpoint(id string) (*url.URL, error) {
	if id == "" {
		return nil, fmt.Errorf("itglue: please provide ID to get password")
	}

	return a.resolveEndpoint(fmt.Sprintf("passwords/%s", url.PathEscape(id)))
}

// Do a bit of error checking on endpoint format, and return it relative to the base URI.
func (a *API) resolveEndpoint(endpoint string) (*url.URL, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("itglue: failed to parse endpoint ref: %w", err)
	}

	return a.BaseURI.ResolveReference(ref), nil
}
