package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bitbucket.org/bluecloudops/recon_backend/config"
	"bitbucket.org/bluecloudops/recon_backend/models"
	"bitbucket.org/bluecloudops/recon_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBSeq int

// setupTestDB installs a fresh in-memory store as the shared handle.
// MaxOpenConns(1) keeps every gorm connection on the same sqlite memory.
func setupTestDB(t *testing.T) {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:workflow_test_%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), config.InitConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	config.SetDB(db)
	t.Cleanup(func() {
		config.SetDB(nil)
		sqlDB.Close()
	})
}

func mustCreateDocument(t *testing.T, id string, docType models.DocumentType) *models.Document {
	t.Helper()
	doc, err := models.CreateDocument(context.Background(), &models.NewDocument{
		ID:      id,
		DocType: docType,
	})
	require.NoError(t, err)
	return doc
}

func mustAddLine(t *testing.T, docID, worker, day, project string, hours float64) *models.ExtractedLine {
	t.Helper()
	workDate, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	line := models.ExtractedLine{
		DocID:    docID,
		Worker:   worker,
		WorkDate: workDate,
		Project:  project,
		Hours:    utils.RoundHours(decimal.NewFromFloat(hours)),
	}
	require.NoError(t, config.GetDB().Create(&line).Error)
	return &line
}

func mustConfirmKey(t *testing.T, kind models.IdentityKind, key string) {
	t.Helper()
	identity := models.CanonicalIdentity{
		Kind:        kind,
		Key:         key,
		DisplayName: key,
		Confirmed:   utils.NewTrue(),
		Active:      utils.NewTrue(),
		Source:      models.CurationManual,
		FirstSeen:   time.Now().UTC(),
	}
	require.NoError(t, config.GetDB().Create(&identity).Error)
}
