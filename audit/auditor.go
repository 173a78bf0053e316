package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/toothbrush/itglue-audit/folders"
	"github.com/toothbrush/itglue-audit/itglue"
)

// AuditorStats counts passwords seen by an Auditor over its lifetime.
type AuditorStats struct {
	Passwords  int
	Exported   int
	Unfiled    int
	Unresolved int
}

// Auditor turns one organization's passwords into Records.
type Auditor struct {
	passwords PasswordSource
	folders   FolderResolver
	uiBase    string
	logger    zerolog.Logger

	stats AuditorStats
}

func NewAuditor(passwords PasswordSource, resolver FolderResolver, uiBase string, logger zerolog.Logger) *Auditor {
	return &Auditor{
		passwords: passwords,
		folders:   resolver,
		uiBase:    uiBase,
		logger:    logger.With().Str("component", "auditor").Logger(),
	}
}

func (a *Auditor) Stats() AuditorStats {
	return a.stats
}

// AuditOrganization fetches every password of an organization and returns one Record per
// password whose folder is known.  Passwords outside any folder, or in a folder whose name can't
// be resolved, are logged and left out.  API failures are returned.
func (a *Auditor) AuditOrganization(ctx context.Context, orgID, orgName string) ([]Record, error) {
	logger := a.logger.With().Str("org_id", orgID).Str("org_name", orgName).Logger()

	ids, err := a.passwords.ListPasswordIDs(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("audit: couldn't list passwords of organization %s: %w", orgID, err)
	}
	logger.Info().Int("passwords", len(ids)).Msg("Auditing organization")

	records := []Record{}
	for _, id := range ids {
		pw, err := a.passwords.GetPassword(ctx, id.String())
		if err != nil {
			return nil, fmt.Errorf("audit: couldn't get password %s of organization %s: %w", id, orgID, err)
		}
		a.stats.Passwords++

		folderID, ref := pw.Folder()
		if ref == itglue.NoFolder {
			a.stats.Unfiled++
			logger.Debug().Str("password_id", id.String()).Msg("Password not in a folder, skipping")
			continue
		}

		res := a.folders.Resolve(ctx, orgID, folderID.String())
		if !res.Resolved() {
			a.stats.Unresolved++
			logger.Warn().
				Str("password_id", id.String()).
				Str("folder_id", folderID.String()).
				Msg("Folder name unresolved, skipping password")
			continue
		}

		logger.Debug().
			Str("password_id", id.String()).
			Str("folder_id", folderID.String()).
			Stringer("folder_ref", ref).
			Str("folder_name", res.FolderName).
			Msg("Password filed")

		records = append(records, Record{
			OrgID:            orgID,
			OrgName:          orgName,
			PasswordID:       id.String(),
			PasswordName:     pw.Attributes.Name,
			Username:         pw.Attributes.Username,
			FolderID:         folderID.String(),
			FolderName:       res.FolderName,
			ParentFolderName: res.ParentFolderName,
			FolderURL:        folders.FolderURL(a.uiBase, orgID, folderID.String()),
		})
	}
	a.stats.Exported += len(records)

	return records, nil
}
