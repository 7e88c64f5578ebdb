package workflow

import (
	"context"
	"fmt"
	"strings"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidMerge = fmt.Errorf("%w: invalid merge", utils.ErrValidation)
	ErrCyclicMerge  = fmt.Errorf("%w: cyclic merge", utils.ErrValidation)
)

type NewMerge struct {
	Kind      models.IdentityKind `json:"kind"`
	Source    string              `json:"source" binding:"required"`
	Target    string              `json:"target" binding:"required"`
	Reason    string              `json:"reason"`
	CreatedBy string              `json:"created_by"`
}

// CreateMerge records a source→target identity mapping. Self-merges are
// rejected, as is any edge that would close a cycle in the existing
// source→target graph (detected by walking the target's outgoing chain).
func CreateMerge(ctx context.Context, input NewMerge) (*models.Merge, error) {
	kind := input.Kind
	if kind == "" {
		kind = models.IdentityKindProject
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidMerge, input.Kind)
	}
	source := strings.TrimSpace(input.Source)
	target := strings.TrimSpace(input.Target)
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: source and target are required", ErrInvalidMerge)
	}
	if source == target {
		return nil, fmt.Errorf("%w: source %q equals target", ErrInvalidMerge, source)
	}

	merges, err := models.ListMerges(ctx, kind)
	if err != nil {
		return nil, err
	}
	edges := make(map[string]string, len(merges))
	for _, m := range merges {
		edges[m.SourceCode] = m.TargetCode
	}
	if _, exists := edges[source]; exists {
		return nil, fmt.Errorf("%w: %q is already the source of a merge", ErrInvalidMerge, source)
	}
	// Walking from target: reaching source means the new edge closes a loop.
	cur := target
	for i := 0; i <= len(edges); i++ {
		if cur == source {
			return nil, fmt.Errorf("%w: %s -> %s", ErrCyclicMerge, source, target)
		}
		next, ok := edges[cur]
		if !ok {
			break
		}
		cur = next
	}

	merge := models.Merge{
		Kind:       kind,
		SourceCode: source,
		TargetCode: target,
		Reason:     input.Reason,
		CreatedBy:  input.CreatedBy,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&merge).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	return &merge, nil
}

// DeleteMerge removes the edge. Lines already rewritten to the old target
// stay as they are; re-importing the extraction is the way to fully reverse
// a merge.
func DeleteMerge(ctx context.Context, id int) error {
	return models.DeleteMergeByID(ctx, id)
}

// Canonicalize follows merge edges from identifier to the terminal key. An
// identifier with no outgoing edge comes back unchanged.
func Canonicalize(ctx context.Context, kind models.IdentityKind, identifier string) (string, error) {
	merges, err := models.ListMerges(ctx, kind)
	if err != nil {
		return "", err
	}
	edges := make(map[string]string, len(merges))
	for _, m := range merges {
		edges[m.SourceCode] = m.TargetCode
	}
	return canonicalizeWith(edges, identifier), nil
}

// canonicalizeWith walks edges to the fixed point. Iteration is bounded by
// the edge count, so a cycle that somehow reached storage cannot hang the
// walk; the last visited key is returned instead.
func canonicalizeWith(edges map[string]string, identifier string) string {
	cur := identifier
	for i := 0; i <= len(edges); i++ {
		next, ok := edges[cur]
		if !ok {
			return cur
		}
		cur = next
	}
	return cur
}

// ApplyMerges rewrites stored extracted lines whose project or worker
// identifier has an outgoing merge edge, directly or transitively, to the
// canonical key. Idempotent: rewritten values are terminal keys, so a second
// run with no new merges changes nothing. Only rows matching at call time
// are touched; concurrent inserts are left for the next run.
func ApplyMerges(ctx context.Context) (int, error) {
	logger := config.GetLogger()
	db := config.GetDB()

	rewritten := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, scan := range []struct {
			kind   models.IdentityKind
			column string
		}{
			{models.IdentityKindProject, "project"},
			{models.IdentityKindWorker, "worker"},
		} {
			var merges []models.Merge
			if err := tx.Where("kind = ?", scan.kind).Order("id").Find(&merges).Error; err != nil {
				return err
			}
			if len(merges) == 0 {
				continue
			}
			edges := make(map[string]string, len(merges))
			for _, m := range merges {
				edges[m.SourceCode] = m.TargetCode
			}
			for source := range edges {
				canonical := canonicalizeWith(edges, source)
				if canonical == source {
					continue
				}
				res := tx.Model(&models.ExtractedLine{}).
					Where(scan.column+" = ?", source).
					Update(scan.column, canonical)
				if res.Error != nil {
					return res.Error
				}
				rewritten += int(res.RowsAffected)
			}
		}
		return nil
	})
	if err != nil {
		config.LogError(logger, "mergeWorkflow.go", "ApplyMerges", "rewriting lines", nil, err)
		return 0, utils.StoreError(err)
	}
	return rewritten, nil
}
