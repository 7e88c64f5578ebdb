package workflow

import (
	"context"
	"sort"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/agnivade/levenshtein"
)

// Suspect pairs an extracted identifier with its nearest confirmed canonical
// key. Purely a read-side view: it disappears once a merge resolves it or the
// rewriter has canonicalized the line.
type Suspect struct {
	Kind          models.IdentityKind `json:"kind"`
	Extracted     string              `json:"extracted"`
	CanonicalKey  string              `json:"canonical_key"`
	CanonicalName string              `json:"canonical_name"`
	Distance      int                 `json:"distance"`
	DocID         string              `json:"doc_id"`
	LineID        int                 `json:"line_id"`
}

// ListSuspects flags likely OCR misreads: extracted identifiers of the given
// kind within maxDistance edit distance of a confirmed, active canonical key.
// Identifiers equal to a confirmed key, or already the source of a merge, are
// skipped. Output is ranked by ascending distance, then document, then line;
// equal-distance candidates tie-break on lexicographic key order so the
// result is deterministic. Never mutates stored data.
func ListSuspects(ctx context.Context, kind models.IdentityKind, maxDistance int) ([]Suspect, error) {
	if !kind.Valid() {
		return nil, utils.ValidationError("unknown identity kind %q", kind)
	}
	if maxDistance <= 0 {
		maxDistance = config.SuspectMaxDistance()
	}

	confirmed, err := models.ListConfirmedIdentities(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(confirmed) == 0 {
		return nil, nil
	}
	confirmedKeys := make(map[string]bool, len(confirmed))
	for _, identity := range confirmed {
		confirmedKeys[identity.Key] = true
	}

	merges, err := models.ListMerges(ctx, kind)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]bool, len(merges))
	for _, m := range merges {
		merged[m.SourceCode] = true
	}

	db := config.GetDB()
	var lines []models.ExtractedLine
	if err := db.WithContext(ctx).Order("doc_id, id").Find(&lines).Error; err != nil {
		return nil, utils.StoreError(err)
	}

	var suspects []Suspect
	for _, line := range lines {
		value := line.Worker
		if kind == models.IdentityKindProject {
			value = line.Project
		}
		if value == "" || confirmedKeys[value] || merged[value] {
			continue
		}

		best := -1
		bestIdentity := models.CanonicalIdentity{}
		for _, identity := range confirmed {
			d := levenshtein.ComputeDistance(value, identity.Key)
			if best == -1 || d < best || (d == best && identity.Key < bestIdentity.Key) {
				best = d
				bestIdentity = identity
			}
		}
		if best <= 0 || best > maxDistance {
			continue
		}

		name := bestIdentity.DisplayName
		if bestIdentity.Nickname != nil && *bestIdentity.Nickname != "" {
			name = *bestIdentity.Nickname
		}
		suspects = append(suspects, Suspect{
			Kind:          kind,
			Extracted:     value,
			CanonicalKey:  bestIdentity.Key,
			CanonicalName: name,
			Distance:      best,
			DocID:         line.DocID,
			LineID:        line.ID,
		})
	}

	sort.SliceStable(suspects, func(i, j int) bool {
		if suspects[i].Distance != suspects[j].Distance {
			return suspects[i].Distance < suspects[j].Distance
		}
		if suspects[i].DocID != suspects[j].DocID {
			return suspects[i].DocID < suspects[j].DocID
		}
		return suspects[i].LineID < suspects[j].LineID
	})
	return suspects, nil
}
