package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"gorm.io/gorm"
)

// Merge is a directed edge folding one identifier into another canonical
// identifier. Walking edges to a fixed point yields the canonical key.
type Merge struct {
	ID int `gorm:"primary_key" json:"id"`
	// Kind participates in the unique index so a code can merge
	// independently as a project and as a worker name.
	Kind       IdentityKind `gorm:"size:10;not null;uniqueIndex:idx_merge_kind_source" json:"kind"`
	SourceCode string       `gorm:"size:120;not null;uniqueIndex:idx_merge_kind_source" json:"source_code"`
	TargetCode string       `gorm:"size:120;not null;index" json:"target_code"`
	Reason     string       `gorm:"size:255" json:"reason"`
	CreatedBy  string       `gorm:"size:120" json:"created_by"`
	CreatedAt  time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func GetMerge(ctx context.Context, id int) (*Merge, error) {
	db := config.GetDB()
	var merge Merge
	err := db.WithContext(ctx).First(&merge, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("merge", id)
	}
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return &merge, nil
}

func ListMerges(ctx context.Context, kind IdentityKind) ([]Merge, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("id")
	if kind != "" {
		dbCtx = dbCtx.Where("kind = ?", kind)
	}
	var merges []Merge
	if err := dbCtx.Find(&merges).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	return merges, nil
}

func DeleteMergeByID(ctx context.Context, id int) error {
	if _, err := GetMerge(ctx, id); err != nil {
		return err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&Merge{}, id).Error; err != nil {
		return utils.StoreError(err)
	}
	return nil
}
