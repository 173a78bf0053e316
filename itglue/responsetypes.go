package itglue

// OrganizationList is one page of GET /organizations.
type OrganizationList struct {
	Data []Organization `json:"data"`

	Links struct {
		// Present only while there are more pages to fetch.
		Next string `json:"next,omitempty"`
		Self string `json:"self,omitempty"`
		Last string `json:"last,omitempty"`
	} `json:"links"`

	Meta struct {
		CurrentPage int `json:"current-page"`
		NextPage    int `json:"next-page"`
		TotalPages  int `json:"total-pages"`
		TotalCount  int `json:"total-count"`
	} `json:"meta"`
}

type organizationDocument struct {
	Data Organization `json:"data"`
}

type passwordDocument struct {
	Data Password `json:"data"`
}

type relationshipList struct {
	Data []ResourceIdentifier `json:"data"`
}
