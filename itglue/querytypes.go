package itglue

// ListOrganizationsQuery defines the query parameters for GET /organizations.  Pages are
// numbered from 1; the API caps page[size] at 1000.
type ListOrganizationsQuery struct {
	PageNumber int    `url:"page[number],omitempty"`
	PageSize   int    `url:"page[size],omitempty"`
	Sort       string `url:"sort,omitempty"` // name, id, updated_at, created_at; prefix with - to reverse
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 1000
)
