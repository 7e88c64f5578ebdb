package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"gorm.io/gorm"
)

type IdentityKind string

const (
	IdentityKindProject IdentityKind = "project"
	IdentityKindWorker  IdentityKind = "worker"
)

func (k IdentityKind) Valid() bool {
	return k == IdentityKindProject || k == IdentityKindWorker
}

type CurationSource string

const (
	CurationAutoExtracted CurationSource = "auto_extracted"
	CurationFuzzyMatch    CurationSource = "fuzzy_match"
	CurationManual        CurationSource = "manual"
)

// CanonicalIdentity is one curated project or worker. Created unconfirmed
// when an identifier first shows up in extraction; confirmed only by analyst
// action. Deactivating keeps history intact.
type CanonicalIdentity struct {
	ID          int            `gorm:"primary_key" json:"id"`
	Kind        IdentityKind   `gorm:"size:10;not null;uniqueIndex:idx_identity_kind_key" json:"kind"`
	Key         string         `gorm:"size:120;not null;uniqueIndex:idx_identity_kind_key" json:"key"`
	DisplayName string         `gorm:"size:200" json:"display_name"`
	// Nickname redacts the display name in outward-facing views when set.
	Nickname  *string        `gorm:"size:120" json:"nickname"`
	Confirmed *bool          `gorm:"not null;default:false" json:"confirmed"`
	Active    *bool          `gorm:"not null;default:true" json:"active"`
	Source    CurationSource `gorm:"size:20;not null" json:"source"`
	FirstSeen time.Time      `json:"first_seen"`
	Note      string         `gorm:"type:text" json:"note"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func GetIdentity(ctx context.Context, kind IdentityKind, key string) (*CanonicalIdentity, error) {
	db := config.GetDB()
	var identity CanonicalIdentity
	err := db.WithContext(ctx).
		Where("kind = ? AND `key` = ?", kind, key).
		First(&identity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("identity", key)
	}
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return &identity, nil
}

// UpsertIdentity inserts the identity if its (kind, key) is new. Existing
// rows are left untouched so re-syncs never demote a confirmed entry.
func UpsertIdentity(tx *gorm.DB, identity *CanonicalIdentity) (bool, error) {
	var existing CanonicalIdentity
	err := tx.Where("kind = ? AND `key` = ?", identity.Kind, identity.Key).
		First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := tx.Create(identity).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ListConfirmedIdentities returns confirmed, active identities of one kind
// in key order.
func ListConfirmedIdentities(ctx context.Context, kind IdentityKind) ([]CanonicalIdentity, error) {
	db := config.GetDB()
	var identities []CanonicalIdentity
	err := db.WithContext(ctx).
		Where("kind = ? AND confirmed = ? AND active = ?", kind, true, true).
		Order("`key`").
		Find(&identities).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return identities, nil
}

func ListIdentities(ctx context.Context, kind IdentityKind) ([]CanonicalIdentity, error) {
	db := config.GetDB()
	var identities []CanonicalIdentity
	err := db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("`key`").
		Find(&identities).Error
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return identities, nil
}
