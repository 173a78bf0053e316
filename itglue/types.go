package itglue

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a resource identifier.  The API is a JSON:API flavour which usually sends ids as strings,
// but foreign keys inside attributes (e.g. password-folder-id) come back as numbers, so both are
// accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("itglue: id is neither string nor number: %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type ResourceIdentifier struct {
	ID   ID     `json:"id"`
	Type string `json:"type"`
}

// Relationship holds a to-one reference; Data is nil when the relationship is empty.
type Relationship struct {
	Data *ResourceIdentifier `json:"data"`
}

// Organization is a tenant.  See GET /organizations.
type Organization struct {
	ID         ID                     `json:"id"`
	Type       string                 `json:"type"`
	Attributes OrganizationAttributes `json:"attributes"`
}

type OrganizationAttributes struct {
	Name                   string `json:"name"`
	ShortName              string `json:"short-name,omitempty"`
	OrganizationTypeName   string `json:"organization-type-name,omitempty"`
	OrganizationStatusName string `json:"organization-status-name,omitempty"`
}

// Password is the detail record behind GET /passwords/:id.  The secret itself is never asked for.
type Password struct {
	ID            ID                      `json:"id"`
	Type          string                  `json:"type"`
	Attributes    PasswordAttributes      `json:"attributes"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

type PasswordAttributes struct {
	OrganizationID   ID     `json:"organization-id"`
	Name             string `json:"name"`
	Username         string `json:"username"`
	PasswordFolderID ID     `json:"password-folder-id"`
	ResourceURL      string `json:"resource-url,omitempty"`
}

// FolderRef says where a password's folder id was found.
type FolderRef int8

const (
	NoFolder FolderRef = iota
	RelationshipFolder
	AttributeFolder
)

func (f FolderRef) String() string {
	switch f {
	case RelationshipFolder:
		return "relationship"
	case AttributeFolder:
		return "attribute"
	default:
		return "none"
	}
}

const passwordFolderRelationship = "password-folder"

// Folder returns the id of the folder the password is filed in.  The API reports the same fact in
// two shapes; the password-folder relationship wins over the flat attribute.
func (p Password) Folder() (ID, FolderRef) {
	if rel, ok := p.Relationships[passwordFolderRelationship]; ok && rel.Data != nil && rel.Data.ID != "" {
		return rel.Data.ID, RelationshipFolder
	}
	if p.Attributes.PasswordFolderID != "" {
		return p.Attributes.PasswordFolderID, AttributeFolder
	}
	return "", NoFolder
}
