package folders

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const breadcrumbItems = `ul[class*="breadcrumb"] > li`

// ParseBreadcrumbs pulls the breadcrumb trail out of a rendered folder page, outermost first.
func ParseBreadcrumbs(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("folders: couldn't parse folder page: %w", err)
	}

	crumbs := []string{}
	doc.Find(breadcrumbItems).Each(func(_ int, s *goquery.Selection) {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			crumbs = append(crumbs, text)
		}
	})

	return crumbs, nil
}

// ResolutionFromBreadcrumbs reads the folder's own name off the last crumb and its parent off the
// one before.  The top of the trail ("Passwords") and a missing parent both become RootName.
func ResolutionFromBreadcrumbs(crumbs []string) Resolution {
	if len(crumbs) == 0 {
		return Resolution{}
	}

	folder := strings.TrimSpace(crumbs[len(crumbs)-1])
	if folder == "" {
		return Resolution{}
	}

	parent := RootName
	if len(crumbs) >= 2 {
		parent = strings.TrimSpace(crumbs[len(crumbs)-2])
	}
	if parent == "" || strings.EqualFold(parent, "passwords") {
		parent = RootName
	}

	return Resolution{
		FolderName:       folder,
		ParentFolderName: parent,
	}
}
