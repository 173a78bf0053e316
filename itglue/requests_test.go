package itglue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.Handler) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := NewAPI(srv.URL, "secret", srv.Client(), zerolog.Nop())
	require.NoError(t, err)
	return api
}

func TestNewAPI_Validation(t *testing.T) {
	_, err := NewAPI("", "key", nil, zerolog.Nop())
	require.Error(t, err)

	_, err = NewAPI("https://api.itglue.com", "", nil, zerolog.Nop())
	require.Error(t, err)

	api, err := NewAPI("https://api.eu.itglue.com/v1", "key", nil, zerolog.Nop())
	require.NoError(t, err)

	ep, err := api.getPasswordByIDEndpoint("42")
	require.NoError(t, err)
	assert.Equal(t, "https://api.eu.itglue.com/v1/passwords/42", ep.String())
}

func TestListAllOrganizations_FollowsPages(t *testing.T) {
	var pagesSeen []string
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations", r.URL.Path)
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Accept"))
		assert.Equal(t, "2", r.URL.Query().Get("page[size]"))

		page := r.URL.Query().Get("page[number]")
		pagesSeen = append(pagesSeen, page)
		n, _ := strconv.Atoi(page)

		resp := map[string]any{}
		switch n {
		case 1:
			resp["data"] = []map[string]any{
				{"id": "1", "type": "organizations", "attributes": map[string]any{"name": "Acme"}},
				{"id": "2", "type": "organizations", "attributes": map[string]any{"name": "Globex"}},
			}
			resp["links"] = map[string]any{"next": "https://api/organizations?page[number]=2"}
		case 2:
			resp["data"] = []map[string]any{
				{"id": "3", "type": "organizations", "attributes": map[string]any{"name": "Initech"}},
			}
			resp["links"] = map[string]any{}
		default:
			assert.Failf(t, "unexpected page", "page %d", n)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))

	orgs, err := api.ListAllOrganizations(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, pagesSeen)
	require.Len(t, orgs, 3)
	assert.Equal(t, ID("3"), orgs[2].ID)
	assert.Equal(t, "Initech", orgs[2].Attributes.Name)
}

func TestListAllOrganizations_StopsOnEmptyPage(t *testing.T) {
	calls := 0
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// a server that always claims there is more
		fmt.Fprint(w, `{"data": [], "links": {"next": "more"}}`)
	}))

	orgs, err := api.ListAllOrganizations(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, orgs)
	assert.Equal(t, 1, calls)
}

func TestListAllOrganizations_PropagatesFailure(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page[number]") == "2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": "1", "attributes": {"name": "Acme"}}], "links": {"next": "more"}}`)
	}))
	api.Fetcher.MaxAttempts = 1

	_, err := api.ListAllOrganizations(context.Background(), 10)
	require.Error(t, err)
	var exhausted *ExhaustedError
	assert.ErrorAs(t, err, &exhausted)
}

func TestPasswordRequests(t *testing.T) {
	api := newTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/organizations/1001":
			fmt.Fprint(w, `{"data": {"id": "1001", "type": "organizations", "attributes": {"name": "Acme"}}}`)
		case "/organizations/1001/relationships/passwords":
			fmt.Fprint(w, `{"data": [{"id": "A", "type": "passwords"}, {"id": 77, "type": "passwords"}]}`)
		case "/passwords/A":
			fmt.Fprint(w, `{"data": {"id": "A", "type": "passwords",
				"attributes": {"organization-id": 1001, "name": "Router", "username": "admin", "password-folder-id": 55},
				"relationships": {"password-folder": {"data": {"id": "F1", "type": "password-folders"}}}}}`)
		default:
			http.NotFound(w, r)
		}
	}))

	org, err := api.GetOrganization(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, "Acme", org.Attributes.Name)

	ids, err := api.ListPasswordIDs(context.Background(), "1001")
	require.NoError(t, err)
	assert.Equal(t, []ID{"A", "77"}, ids)

	pw, err := api.GetPassword(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Router", pw.Attributes.Name)
	assert.Equal(t, "admin", pw.Attributes.Username)
	assert.Equal(t, ID("1001"), pw.Attributes.OrganizationID)

	folder, ref := pw.Folder()
	assert.Equal(t, ID("F1"), folder)
	assert.Equal(t, RelationshipFolder, ref)
}
