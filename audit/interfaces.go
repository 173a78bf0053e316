package audit

import (
	"context"

	"github.com/toothbrush/itglue-audit/folders"
	"github.com/toothbrush/itglue-audit/itglue"
)

//go:generate mockgen -source=interfaces.go -destination=../internal/mock/audit_mock.go -package=mock

// OrganizationLister pages through every organization, see itglue.API.ListAllOrganizations.
type OrganizationLister interface {
	ListAllOrganizations(ctx context.Context, pageSize int) ([]itglue.Organization, error)
}

type OrganizationSource interface {
	GetOrganization(ctx context.Context, id string) (*itglue.Organization, error)
}

type PasswordSource interface {
	ListPasswordIDs(ctx context.Context, orgID string) ([]itglue.ID, error)
	GetPassword(ctx context.Context, id string) (*itglue.Password, error)
}

// FolderResolver never fails; an unresolvable folder comes back empty.
type FolderResolver interface {
	Resolve(ctx context.Context, orgID, folderID string) folders.Resolution
}

// FolderSession is the lifecycle side of the folder resolver.
type FolderSession interface {
	Flush(ctx context.Context) error
	Close() error
	Stats() folders.Stats
}

type RateLimitCounter interface {
	RateLimitHits() int
}
