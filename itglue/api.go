package itglue

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// NewAPI builds a client for the REST API rooted at baseURI.  The given http.Client is used for
// every request, so a VCR recorder or test transport can be slotted in; nil means a fresh one.
func NewAPI(baseURI string, apiKey string, client *http.Client, logger zerolog.Logger) (*API, error) {
	if baseURI == "" {
		return nil, fmt.Errorf("itglue: configure the API base URL with ITGLUE_API_BASE")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("itglue: API key is empty, please set ITGLUE_API_KEY")
	}

	// a trailing slash keeps any path prefix when resolving relative endpoints
	u, err := url.ParseRequestURI(strings.TrimSuffix(baseURI, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("itglue: couldn't parse REST API URL: %w", err)
	}

	if client == nil {
		client = &http.Client{}
	}

	a := &API{
		BaseURI: u,
		Client:  client,
	}
	a.Fetcher = NewFetcher(client, apiKey, logger)

	return a, nil
}

type API struct {
	// Root of the REST API, e.g. https://api.itglue.com/
	BaseURI *url.URL

	// The HTTP client underneath the Fetcher.
	Client *http.Client

	// Every GET goes through here.
	Fetcher *Fetcher
}

// RateLimitHits reports how many throttling responses this client has waited out.
func (api *API) RateLimitHits() int {
	return api.Fetcher.RateLimitHits()
}
