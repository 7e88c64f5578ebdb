package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentType string

const (
	DocumentTypeTimesheet            DocumentType = "TIMESHEET"
	DocumentTypeSubcontractorInvoice DocumentType = "SUBCONTRACTOR_INVOICE"
	DocumentTypeOwnInvoice           DocumentType = "OWN_INVOICE"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeTimesheet, DocumentTypeSubcontractorInvoice, DocumentTypeOwnInvoice:
		return true
	}
	return false
}

// Document is an uploaded timesheet or invoice. Storage and OCR of the file
// itself live outside this service; we keep the declared path only as an
// opaque reference.
type Document struct {
	ID         string       `gorm:"primary_key;size:64" json:"id"`
	DocType    DocumentType `gorm:"size:30;not null;index" json:"doc_type" binding:"required"`
	FilePath   string       `gorm:"size:255" json:"file_path"`
	IngestedAt time.Time    `gorm:"autoCreateTime" json:"ingested_at"`
}

type NewDocument struct {
	ID       string       `json:"id"`
	DocType  DocumentType `json:"doc_type" binding:"required"`
	FilePath string       `json:"file_path"`
}

func CreateDocument(ctx context.Context, input *NewDocument) (*Document, error) {
	if !input.DocType.Valid() {
		return nil, utils.ValidationError("unknown document type %q", input.DocType)
	}

	doc := Document{
		ID:       strings.TrimSpace(input.ID),
		DocType:  input.DocType,
		FilePath: input.FilePath,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	return &doc, nil
}

func GetDocument(ctx context.Context, id string) (*Document, error) {
	db := config.GetDB()
	var doc Document
	err := db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NotFoundError("document", id)
	}
	if err != nil {
		return nil, utils.StoreError(err)
	}
	return &doc, nil
}

func ListDocuments(ctx context.Context) ([]Document, error) {
	db := config.GetDB()
	var docs []Document
	if err := db.WithContext(ctx).Order("ingested_at DESC, id").Find(&docs).Error; err != nil {
		return nil, utils.StoreError(err)
	}
	return docs, nil
}

// DeleteDocument removes a document and everything hanging off it, in order:
// extracted lines, approval decisions, ground truth, validation results.
func DeleteDocument(ctx context.Context, id string) error {
	if _, err := GetDocument(ctx, id); err != nil {
		return err
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doc_id = ?", id).Delete(&ExtractedLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doc_id = ?", id).Delete(&ApprovalDecision{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doc_id = ?", id).Delete(&GroundTruthLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("doc_id = ?", id).Delete(&ValidationResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Document{}, "id = ?", id).Error
	})
	if err != nil {
		return utils.StoreError(err)
	}
	return nil
}
