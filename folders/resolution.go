// Package folders turns password folder ids into display names.  The REST API only hands out
// folder ids; names come from the breadcrumb trail on the web UI's folder page, which is
// expensive to render, so every answer is cached.
package folders

import (
	"net/url"
	"strings"
)

// RootName stands in for the parent of a top-level folder.
const RootName = "root"

// Resolution is what we know about one folder.  Both fields are empty when the folder could not
// be resolved.
type Resolution struct {
	FolderName       string `json:"FolderName"`
	ParentFolderName string `json:"ParentFolderName"`
}

func (r Resolution) Resolved() bool {
	return r.FolderName != ""
}

// FolderURL is the UI page listing a folder's passwords, e.g.
// https://acme.itglue.com/1001/passwords/folder/F1
func FolderURL(uiBase, orgID, folderID string) string {
	return strings.TrimSuffix(uiBase, "/") + "/" + url.PathEscape(orgID) + "/passwords/folder/" + url.PathEscape(folderID)
}
