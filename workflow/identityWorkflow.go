package workflow

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"gorm.io/gorm"
)

// SyncFromExtraction scans every distinct extracted project code and worker
// name and registers the ones the identity registry has not seen yet, as
// unconfirmed auto_extracted entries. Re-running never duplicates or demotes
// an existing entry. Returns the number of identities created.
func SyncFromExtraction(ctx context.Context) (int, error) {
	logger := config.GetLogger()
	db := config.GetDB()

	created := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ordered by work_date, so the first occurrence of a key carries its
		// earliest sighting. Grouping happens here rather than in SQL: date
		// aggregates do not scan portably across the mysql and sqlite drivers.
		var lines []models.ExtractedLine
		if err := tx.Order("work_date, id").Find(&lines).Error; err != nil {
			return err
		}

		for _, scan := range []struct {
			kind models.IdentityKind
			pick func(models.ExtractedLine) string
		}{
			{models.IdentityKindProject, func(l models.ExtractedLine) string { return l.Project }},
			{models.IdentityKindWorker, func(l models.ExtractedLine) string { return l.Worker }},
		} {
			firstSeen := make(map[string]time.Time)
			var keys []string
			for _, line := range lines {
				key := strings.TrimSpace(scan.pick(line))
				if key == "" {
					continue
				}
				if _, ok := firstSeen[key]; !ok {
					firstSeen[key] = line.WorkDate
					keys = append(keys, key)
				}
			}
			for _, key := range keys {
				inserted, err := models.UpsertIdentity(tx, &models.CanonicalIdentity{
					Kind:        scan.kind,
					Key:         key,
					DisplayName: key,
					Confirmed:   utils.NewFalse(),
					Active:      utils.NewTrue(),
					Source:      models.CurationAutoExtracted,
					FirstSeen:   firstSeen[key],
				})
				if err != nil {
					return err
				}
				if inserted {
					created++
				}
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(logger, "identityWorkflow.go", "SyncFromExtraction", "registry sync", nil, err)
		return 0, utils.StoreError(err)
	}
	return created, nil
}

// ConfirmIdentityInput carries analyst curation fields. Pointer fields
// distinguish "not provided" from an explicit value; an explicitly empty
// nickname clears the stored one.
type ConfirmIdentityInput struct {
	DisplayName *string `json:"display_name"`
	Nickname    *string `json:"nickname"`
	Confirmed   *bool   `json:"confirmed"`
	Active      *bool   `json:"active"`
	Note        *string `json:"note"`
}

func ConfirmIdentity(ctx context.Context, kind models.IdentityKind, key string, input ConfirmIdentityInput) (*models.CanonicalIdentity, error) {
	if !kind.Valid() {
		return nil, utils.ValidationError("unknown identity kind %q", kind)
	}
	identity, err := models.GetIdentity(ctx, kind, key)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		identity.DisplayName = *input.DisplayName
	}
	if input.Nickname != nil {
		if *input.Nickname == "" {
			identity.Nickname = nil
		} else {
			identity.Nickname = input.Nickname
		}
	}
	if input.Confirmed != nil {
		identity.Confirmed = input.Confirmed
	}
	if input.Active != nil {
		identity.Active = input.Active
	}
	if input.Note != nil {
		identity.Note = *input.Note
	}
	// Provenance records how the entry got confirmed, so only the call that
	// flips Confirmed counts as manual curation. Later edits leave it alone.
	if input.Confirmed != nil && *input.Confirmed && identity.Source == models.CurationAutoExtracted {
		identity.Source = models.CurationManual
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(identity).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	return identity, nil
}
